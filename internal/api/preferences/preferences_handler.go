package preferences

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-tourism-recommender/app/middleware"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

type PreferencesHandler struct {
	preferencesService PreferencesService
	logger             *slog.Logger
}

func NewPreferencesHandler(preferencesService PreferencesService, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesService: preferencesService,
		logger:             logger,
	}
}

// GetPreferenceVector returns the session preference vector for the
// authenticated user.
func (h *PreferencesHandler) GetPreferenceVector(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "GetPreferenceVector", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/preferences/vector"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPreferenceVector"))

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	vector, err := h.preferencesService.GetPreferenceVector(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build preference vector", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build preference vector")
		return
	}
	if vector == nil {
		vector = types.PreferenceVector{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, vector)
}

// GetUserRatings returns the authenticated user's rating history.
func (h *PreferencesHandler) GetUserRatings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUserRatings"))

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	ratings, err := h.preferencesService.GetUserRatings(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user ratings", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch user ratings")
		return
	}
	if ratings == nil {
		ratings = []types.UserRating{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ratings)
}

// GetUserProfile returns the authenticated user's profile.
func (h *PreferencesHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUserProfile"))

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.preferencesService.GetUserProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}
	if profile == nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "User profile not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}
