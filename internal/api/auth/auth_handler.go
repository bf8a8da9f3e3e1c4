package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login authenticates a user and returns an access/refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req api.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Login == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "login and password are required")
		return
	}

	resp, err := h.authService.Login(ctx, req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserBlocked):
			api.ErrorResponse(w, r, http.StatusForbidden, "User is blocked by administrator")
		case errors.Is(err, ErrInvalidCredentials):
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid login or password")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// RefreshSession exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RefreshSession"))

	var req api.RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		l.ErrorContext(ctx, "Session refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Session refresh failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Logout invalidates the supplied refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Logout"))

	var req api.RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		l.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Logout failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// ListCredentials is the admin account overview.
func (h *AuthHandler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListCredentials"))

	overview, err := h.authService.ListCredentials(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list credentials", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list credentials")
		return
	}
	if overview == nil {
		overview = []api.CredentialsOverview{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, overview)
}

type setBlockStatusRequest struct {
	Blocked bool `json:"blocked"`
}

// SetBlockStatus blocks or unblocks an account.
func (h *AuthHandler) SetBlockStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SetBlockStatus"))

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req setBlockStatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.SetBlockStatus(ctx, userID, req.Blocked); err != nil {
		l.ErrorContext(ctx, "Failed to update block status", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update block status")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true})
}
