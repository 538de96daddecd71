package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/meetinghub/internal/application"
)

// Analyze runs transcript analysis plus any requested automations. Analysis
// failures come back as 502 with the failure message; automation failures
// are reported inside the response messages.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analyzeSvc.Run(r.Context(), user, req.Transcript, application.AutomationRequest{
		EmailSummary:   req.EmailSummary,
		SlackSummary:   req.SlackSummary,
		TrelloBoardID:  req.TrelloBoardID,
		TrelloListID:   req.TrelloListID,
		JiraProjectKey: req.JiraProjectKey,
		JiraIssueType:  req.JiraIssueType,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrAnalysisFailed):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			h.logger.Error("analyze failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toAnalyzeResponse(*result))
}

// ListTrackedCards returns the authenticated user's tracked Trello cards.
func (h *Handler) ListTrackedCards(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	cards, err := h.integrationSvc.TrackedCards(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list tracked cards failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]TrackedCardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, toTrackedCardResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}
