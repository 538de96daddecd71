package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/meetinghub/internal/application"
)

// IntegrationStatus reports which integrations the user has connected.
func (h *Handler) IntegrationStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	status, err := h.integrationSvc.Status(r.Context(), user)
	if err != nil {
		h.logger.Error("integration status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, IntegrationStatusResponse{
		TrelloConnected: status.TrelloConnected,
		TrelloUsername:  status.TrelloUsername,
		JiraConnected:   status.JiraConnected,
		JiraURL:         status.JiraBaseURL,
		SlackConnected:  status.SlackConnected,
	})
}

// ConnectTrello validates and stores the user's Trello token.
func (h *Handler) ConnectTrello(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ConnectTrelloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cred, err := h.integrationSvc.ConnectTrello(r.Context(), user, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("trello connect failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusBadRequest, "could not validate trello token")
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		TrelloUsername string `json:"trello_username"`
	}{TrelloUsername: cred.TrelloUsername})
}

// DisconnectTrello removes the user's Trello credential.
func (h *Handler) DisconnectTrello(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.integrationSvc.DisconnectTrello(r.Context(), user.ID); err != nil {
		h.logger.Error("trello disconnect failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBoards returns the boards of the user's connected Trello account.
func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	boards, err := h.integrationSvc.ListBoards(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, application.ErrTrelloNotConnected) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("list boards failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusBadGateway, "could not fetch boards from trello")
		return
	}

	resp := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		resp = append(resp, BoardResponse{ID: b.ID, Name: b.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListLists returns the lists of one board.
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	boardID := r.PathValue("boardID")
	lists, err := h.integrationSvc.ListLists(r.Context(), user.ID, boardID)
	if err != nil {
		if errors.Is(err, application.ErrTrelloNotConnected) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("list lists failed", "user_id", user.ID, "board_id", boardID, "error", err)
		writeError(w, http.StatusBadGateway, "could not fetch lists from trello")
		return
	}

	resp := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		resp = append(resp, ListResponse{ID: l.ID, Name: l.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConnectJira validates and stores the user's Jira credential.
func (h *Handler) ConnectJira(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ConnectJiraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.integrationSvc.ConnectJira(r.Context(), user, req.URL, req.Email, req.APIToken); err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("jira connect failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusBadRequest, "could not validate jira credentials")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "jira connected"})
}

// DisconnectJira removes the user's Jira credential.
func (h *Handler) DisconnectJira(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.integrationSvc.DisconnectJira(r.Context(), user.ID); err != nil {
		h.logger.Error("jira disconnect failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProjects returns the projects of the user's connected Jira site.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	projects, err := h.integrationSvc.ListProjects(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, application.ErrJiraNotConnected) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("list projects failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusBadGateway, "could not fetch projects from jira")
		return
	}

	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, ProjectResponse{Key: p.Key, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListIssueTypes returns the issue types of one Jira project.
func (h *Handler) ListIssueTypes(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	projectKey := r.PathValue("projectKey")
	types, err := h.integrationSvc.ListIssueTypes(r.Context(), user.ID, projectKey)
	if err != nil {
		if errors.Is(err, application.ErrJiraNotConnected) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("list issue types failed", "user_id", user.ID, "project", projectKey, "error", err)
		writeError(w, http.StatusBadGateway, "could not fetch issue types from jira")
		return
	}

	resp := make([]IssueTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, IssueTypeResponse{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConnectSlack sets the team's Slack webhook URL.
func (h *Handler) ConnectSlack(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ConnectSlackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.teamSvc.SetSlackWebhook(r.Context(), user, req.WebhookURL); err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidWebhook), errors.Is(err, application.ErrNoTeam):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("slack connect failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "slack connected"})
}

// DisconnectSlack clears the team's Slack webhook URL.
func (h *Handler) DisconnectSlack(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.teamSvc.ClearSlackWebhook(r.Context(), user); err != nil {
		if errors.Is(err, application.ErrNoTeam) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("slack disconnect failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
