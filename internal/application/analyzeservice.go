package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// ErrAnalysisFailed wraps transcript-analysis failures so the HTTP layer can
// report them as a message rather than a server error.
var ErrAnalysisFailed = errors.New("transcript analysis failed")

// AutomationRequest selects which follow-up actions to run on an analysis.
// Trello and Jira automations run when their target fields are set.
type AutomationRequest struct {
	EmailSummary bool
	SlackSummary bool

	TrelloBoardID string
	TrelloListID  string

	JiraProjectKey string
	JiraIssueType  string
}

// AnalyzeResult is the analysis plus one human-readable status message per
// requested automation.
type AnalyzeResult struct {
	Analysis model.Analysis
	Messages []string
}

// AnalyzeService runs transcript analysis and the optional automations that
// push the result to email, Trello, Jira, and Slack. Automation failures are
// reported in the result messages and never fail the request.
type AnalyzeService struct {
	analyzer      driven.TranscriptAnalyzer
	mailer        driven.Mailer
	slack         driven.SlackNotifier
	trelloCreds   driven.TrelloCredentialStore
	jiraCreds     driven.JiraCredentialStore
	cards         driven.CardStore
	teams         driven.TeamStore
	users         driven.UserStore
	trelloFactory driven.TrelloClientFactory
	jiraFactory   driven.JiraClientFactory
}

// NewAnalyzeService creates an AnalyzeService.
func NewAnalyzeService(
	analyzer driven.TranscriptAnalyzer,
	mailer driven.Mailer,
	slack driven.SlackNotifier,
	trelloCreds driven.TrelloCredentialStore,
	jiraCreds driven.JiraCredentialStore,
	cards driven.CardStore,
	teams driven.TeamStore,
	users driven.UserStore,
	trelloFactory driven.TrelloClientFactory,
	jiraFactory driven.JiraClientFactory,
) *AnalyzeService {
	return &AnalyzeService{
		analyzer:      analyzer,
		mailer:        mailer,
		slack:         slack,
		trelloCreds:   trelloCreds,
		jiraCreds:     jiraCreds,
		cards:         cards,
		teams:         teams,
		users:         users,
		trelloFactory: trelloFactory,
		jiraFactory:   jiraFactory,
	}
}

// Run analyzes the transcript and executes the requested automations.
func (s *AnalyzeService) Run(ctx context.Context, user model.User, transcript string, req AutomationRequest) (*AnalyzeResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript required", ErrInvalidInput)
	}
	if s.analyzer == nil {
		return nil, fmt.Errorf("%w: analysis is not configured on this server", ErrAnalysisFailed)
	}

	analysis, err := s.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	result := &AnalyzeResult{Analysis: *analysis}

	if req.EmailSummary {
		result.Messages = append(result.Messages, s.emailSummary(ctx, user, *analysis))
	}
	if req.TrelloBoardID != "" && req.TrelloListID != "" {
		result.Messages = append(result.Messages, s.createTrelloCards(ctx, user, *analysis, req.TrelloBoardID, req.TrelloListID))
	}
	if req.JiraProjectKey != "" && req.JiraIssueType != "" {
		result.Messages = append(result.Messages, s.createJiraIssues(ctx, user, *analysis, req.JiraProjectKey, req.JiraIssueType))
	}
	if req.SlackSummary {
		result.Messages = append(result.Messages, s.postToSlack(ctx, user, *analysis))
	}

	return result, nil
}

// emailSummary mails the analysis to every member of the user's team.
func (s *AnalyzeService) emailSummary(ctx context.Context, user model.User, analysis model.Analysis) string {
	if user.TeamID == nil {
		return "Email skipped: you are not in a team."
	}

	members, err := s.users.ListByTeam(ctx, *user.TeamID)
	if err != nil {
		slog.Error("list team members for summary mail", "team_id", *user.TeamID, "error", err)
		return "Email failed: could not load team members."
	}

	recipients := make([]string, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, m.Email)
	}
	if len(recipients) == 0 {
		return "Email skipped: your team has no members."
	}

	if err := s.mailer.SendSummary(ctx, recipients, analysis); err != nil {
		slog.Error("summary mail failed", "team_id", *user.TeamID, "error", err)
		return fmt.Sprintf("Email failed: %v", err)
	}
	return fmt.Sprintf("Summary emailed to %d team member(s).", len(recipients))
}

// createTrelloCards creates one card per action item and records each as a
// tracked card for the accountability worker.
func (s *AnalyzeService) createTrelloCards(ctx context.Context, user model.User, analysis model.Analysis, boardID, listID string) string {
	if len(analysis.ActionItems) == 0 {
		return "Trello skipped: no action items."
	}

	cred, err := s.trelloCreds.GetByUser(ctx, user.ID)
	if err != nil || cred == nil {
		return "Trello skipped: integration not connected."
	}
	client, err := s.trelloFactory.NewClient(cred.Token)
	if err != nil {
		return fmt.Sprintf("Trello failed: %v", err)
	}

	created := 0
	var failures []string
	for _, item := range analysis.ActionItems {
		description := fmt.Sprintf("Assignee: %s\nDue: %s", item.Assignee, item.DueDate)
		remote, err := client.CreateCard(ctx, listID, item.Task, description)
		if err != nil {
			slog.Warn("trello card creation failed", "task", item.Task, "error", err)
			failures = append(failures, item.Task)
			continue
		}

		if _, err := s.cards.Add(ctx, model.TrackedCard{
			CardID:      remote.ID,
			UserID:      user.ID,
			BoardID:     boardID,
			ListID:      listID,
			Description: item.Task,
			Assignee:    item.Assignee,
			DueDate:     item.DueDate,
		}); err != nil {
			// The card exists in Trello; tracking it failed. Log and move on.
			slog.Error("tracked card not recorded", "card_id", remote.ID, "error", err)
		}
		created++
	}

	if len(failures) > 0 {
		return fmt.Sprintf("Trello: created %d card(s), %d failed (%s).", created, len(failures), strings.Join(failures, "; "))
	}
	return fmt.Sprintf("Trello: created %d card(s).", created)
}

// createJiraIssues creates one issue per action item.
func (s *AnalyzeService) createJiraIssues(ctx context.Context, user model.User, analysis model.Analysis, projectKey, issueType string) string {
	if len(analysis.ActionItems) == 0 {
		return "Jira skipped: no action items."
	}

	cred, err := s.jiraCreds.GetByUser(ctx, user.ID)
	if err != nil || cred == nil {
		return "Jira skipped: integration not connected."
	}
	client := s.jiraFactory.NewClient(*cred)

	created := 0
	var failures []string
	for _, item := range analysis.ActionItems {
		description := fmt.Sprintf("Assignee: %s\nDue: %s\n\nCreated from a meeting analysis.", item.Assignee, item.DueDate)
		key, err := client.CreateIssue(ctx, projectKey, issueType, item.Task, description)
		if err != nil {
			slog.Warn("jira issue creation failed", "task", item.Task, "error", err)
			failures = append(failures, item.Task)
			continue
		}
		slog.Info("jira issue created", "key", key, "user_id", user.ID)
		created++
	}

	if len(failures) > 0 {
		return fmt.Sprintf("Jira: created %d issue(s), %d failed (%s).", created, len(failures), strings.Join(failures, "; "))
	}
	return fmt.Sprintf("Jira: created %d issue(s).", created)
}

// postToSlack posts the analysis to the user's team webhook.
func (s *AnalyzeService) postToSlack(ctx context.Context, user model.User, analysis model.Analysis) string {
	if user.TeamID == nil {
		return "Slack skipped: you are not in a team."
	}
	team, err := s.teams.GetByID(ctx, *user.TeamID)
	if err != nil || team == nil {
		return "Slack failed: could not load your team."
	}
	if !team.HasSlackWebhook() {
		return "Slack skipped: team webhook not configured."
	}

	if err := s.slack.PostSummary(ctx, team.SlackWebhookURL, analysis); err != nil {
		slog.Error("slack post failed", "team_id", team.ID, "error", err)
		return fmt.Sprintf("Slack failed: %v", err)
	}
	return "Summary posted to Slack."
}
