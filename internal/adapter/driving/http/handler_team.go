package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/meetinghub/internal/application"
)

// CreateTeam creates a team owned by the authenticated user.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := h.teamSvc.Create(r.Context(), user, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrAlreadyInTeam):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("create team failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, TeamResponse{
		ID:             team.ID,
		Name:           team.Name,
		OwnerID:        team.OwnerID,
		SlackConnected: team.HasSlackWebhook(),
		Members:        []UserResponse{toUserResponse(user)},
	})
}

// GetTeam returns the authenticated user's team and members.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	team, members, err := h.teamSvc.Get(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNoTeam), errors.Is(err, application.ErrTeamNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("get team failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	memberResponses := make([]UserResponse, 0, len(members))
	for _, m := range members {
		memberResponses = append(memberResponses, toUserResponse(m))
	}

	writeJSON(w, http.StatusOK, TeamResponse{
		ID:             team.ID,
		Name:           team.Name,
		OwnerID:        team.OwnerID,
		SlackConnected: team.HasSlackWebhook(),
		Members:        memberResponses,
	})
}

// InviteToTeam adds an existing user to the authenticated user's team.
func (h *Handler) InviteToTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.teamSvc.Invite(r.Context(), user, req.Email); err != nil {
		switch {
		case errors.Is(err, application.ErrNoTeam):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrInviteeNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrAlreadyInTeam):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("team invite failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "user added to team"})
}
