package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/meetinghub/internal/application"
	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the standard success-with-message body.
type messageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the JSON body for the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest is the JSON body for the verify-email endpoint.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// EmailRequest is the JSON body for endpoints keyed by email only.
type EmailRequest struct {
	Email string `json:"email"`
}

// LoginRequest is the JSON body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest is the JSON body for the reset-password endpoint.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// UserResponse is the JSON representation of an account.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	TeamID    *int64 `json:"team_id"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// CreateTeamRequest is the JSON body for the create-team endpoint.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// InviteRequest is the JSON body for the team invite endpoint.
type InviteRequest struct {
	Email string `json:"email"`
}

// TeamResponse is the JSON representation of a team with its members.
type TeamResponse struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	OwnerID        int64          `json:"owner_id"`
	SlackConnected bool           `json:"slack_connected"`
	Members        []UserResponse `json:"members"`
}

// AnalyzeRequest is the JSON body for the analyze endpoint. The automation
// fields are optional.
type AnalyzeRequest struct {
	Transcript     string `json:"transcript"`
	EmailSummary   bool   `json:"email_summary"`
	SlackSummary   bool   `json:"slack_summary"`
	TrelloBoardID  string `json:"trello_board_id"`
	TrelloListID   string `json:"trello_list_id"`
	JiraProjectKey string `json:"jira_project_key"`
	JiraIssueType  string `json:"jira_issue_type"`
}

// AnalyzeResponse is the analysis plus automation status messages.
type AnalyzeResponse struct {
	Summary     string               `json:"summary"`
	Decisions   []string             `json:"decisions"`
	ActionItems []ActionItemResponse `json:"action_items"`
	Messages    []string             `json:"messages"`
}

// ActionItemResponse is the JSON representation of one extracted action item.
type ActionItemResponse struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
}

// ConnectTrelloRequest is the JSON body for the Trello connect endpoint.
type ConnectTrelloRequest struct {
	Token string `json:"token"`
}

// ConnectJiraRequest is the JSON body for the Jira connect endpoint.
type ConnectJiraRequest struct {
	URL      string `json:"url"`
	Email    string `json:"email"`
	APIToken string `json:"api_token"`
}

// ConnectSlackRequest is the JSON body for the Slack connect endpoint.
type ConnectSlackRequest struct {
	WebhookURL string `json:"webhook_url"`
}

// IntegrationStatusResponse reports the user's connected integrations.
type IntegrationStatusResponse struct {
	TrelloConnected bool   `json:"trello_connected"`
	TrelloUsername  string `json:"trello_username,omitempty"`
	JiraConnected   bool   `json:"jira_connected"`
	JiraURL         string `json:"jira_url,omitempty"`
	SlackConnected  bool   `json:"slack_connected"`
}

// BoardResponse is the JSON representation of a Trello board.
type BoardResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListResponse is the JSON representation of a Trello list.
type ListResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectResponse is the JSON representation of a Jira project.
type ProjectResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueTypeResponse is the JSON representation of a Jira issue type.
type IssueTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TrackedCardResponse is the JSON representation of a tracked Trello card.
type TrackedCardResponse struct {
	CardID      string `json:"card_id"`
	BoardID     string `json:"board_id"`
	ListID      string `json:"list_id"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"due_date"`
	CreatedAt   string `json:"created_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toUserResponse converts a domain User to its JSON response representation.
func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		TeamID:    u.TeamID,
		Verified:  u.IsVerified,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toAnalyzeResponse converts an application AnalyzeResult to its JSON
// representation. Slices are never nil in the response.
func toAnalyzeResponse(res application.AnalyzeResult) AnalyzeResponse {
	decisions := res.Analysis.Decisions
	if decisions == nil {
		decisions = []string{}
	}

	items := make([]ActionItemResponse, 0, len(res.Analysis.ActionItems))
	for _, item := range res.Analysis.ActionItems {
		items = append(items, ActionItemResponse{
			Task:     item.Task,
			Assignee: item.Assignee,
			DueDate:  item.DueDate,
		})
	}

	messages := res.Messages
	if messages == nil {
		messages = []string{}
	}

	return AnalyzeResponse{
		Summary:     res.Analysis.Summary,
		Decisions:   decisions,
		ActionItems: items,
		Messages:    messages,
	}
}

// toTrackedCardResponse converts a domain TrackedCard to its JSON representation.
func toTrackedCardResponse(c model.TrackedCard) TrackedCardResponse {
	return TrackedCardResponse{
		CardID:      c.CardID,
		BoardID:     c.BoardID,
		ListID:      c.ListID,
		Description: c.Description,
		Assignee:    c.Assignee,
		DueDate:     c.DueDate,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
