// Package httphandler is the HTTP driving adapter serving the JSON API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/meetinghub/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	authSvc        *application.AuthService
	teamSvc        *application.TeamService
	analyzeSvc     *application.AnalyzeService
	integrationSvc *application.IntegrationService
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authSvc *application.AuthService,
	teamSvc *application.TeamService,
	analyzeSvc *application.AnalyzeService,
	integrationSvc *application.IntegrationService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:        authSvc,
		teamSvc:        teamSvc,
		analyzeSvc:     analyzeSvc,
		integrationSvc: integrationSvc,
		logger:         logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/verify-email", h.VerifyEmail)
	mux.HandleFunc("POST /api/v1/auth/resend-verification", h.ResendVerification)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/auth/check-username", h.CheckUsername)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", h.ResetPassword)

	mux.HandleFunc("GET /api/v1/me", h.requireAuth(h.Me))
	mux.HandleFunc("POST /api/v1/analyze", h.requireAuth(h.Analyze))

	mux.HandleFunc("POST /api/v1/teams", h.requireAuth(h.CreateTeam))
	mux.HandleFunc("GET /api/v1/teams", h.requireAuth(h.GetTeam))
	mux.HandleFunc("POST /api/v1/teams/invite", h.requireAuth(h.InviteToTeam))

	mux.HandleFunc("GET /api/v1/integrations", h.requireAuth(h.IntegrationStatus))
	mux.HandleFunc("POST /api/v1/integrations/trello", h.requireAuth(h.ConnectTrello))
	mux.HandleFunc("DELETE /api/v1/integrations/trello", h.requireAuth(h.DisconnectTrello))
	mux.HandleFunc("GET /api/v1/integrations/trello/boards", h.requireAuth(h.ListBoards))
	mux.HandleFunc("GET /api/v1/integrations/trello/boards/{boardID}/lists", h.requireAuth(h.ListLists))
	mux.HandleFunc("POST /api/v1/integrations/jira", h.requireAuth(h.ConnectJira))
	mux.HandleFunc("DELETE /api/v1/integrations/jira", h.requireAuth(h.DisconnectJira))
	mux.HandleFunc("GET /api/v1/integrations/jira/projects", h.requireAuth(h.ListProjects))
	mux.HandleFunc("GET /api/v1/integrations/jira/projects/{projectKey}/issuetypes", h.requireAuth(h.ListIssueTypes))
	mux.HandleFunc("POST /api/v1/integrations/slack", h.requireAuth(h.ConnectSlack))
	mux.HandleFunc("DELETE /api/v1/integrations/slack", h.requireAuth(h.DisconnectSlack))

	mux.HandleFunc("GET /api/v1/cards", h.requireAuth(h.ListTrackedCards))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Register creates an account and sends the verification code.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrUsernameTaken), errors.Is(err, application.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("register failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

// VerifyEmail confirms the verification OTP.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("verify email failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "email verified"})
}

// ResendVerification issues a fresh verification OTP.
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("resend verification failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "verification code sent"})
}

// Login authenticates and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, application.ErrNotVerified):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

// Logout deletes the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authSvc.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// CheckUsername reports whether a username is available.
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username query parameter required")
		return
	}

	available, err := h.authSvc.UsernameAvailable(r.Context(), username)
	if err != nil {
		h.logger.Error("username check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Available bool `json:"available"`
	}{Available: available})
}

// ForgotPassword issues a password-reset OTP. The response does not reveal
// whether the account exists.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if !errors.Is(err, application.ErrUserNotFound) {
			h.logger.Error("password reset request failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "if the account exists, a reset code was sent"})
}

// ResetPassword validates the reset OTP and sets the new password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrInvalidToken), errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("password reset failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset"})
}

// Me returns the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
