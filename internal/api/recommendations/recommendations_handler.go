package recommendations

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-tourism-recommender/app/middleware"
	"github.com/FACorreiaa/go-tourism-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/preferences"
	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

type RecommendationsHandler struct {
	recommendationsService RecommendationsService
	preferencesService     preferences.PreferencesService
	logger                 *slog.Logger
}

func NewRecommendationsHandler(
	recommendationsService RecommendationsService,
	preferencesService preferences.PreferencesService,
	logger *slog.Logger,
) *RecommendationsHandler {
	return &RecommendationsHandler{
		recommendationsService: recommendationsService,
		preferencesService:     preferencesService,
		logger:                 logger,
	}
}

// GetRecommendations builds the session preference vector for the
// authenticated user and resolves their scored candidate list.
func (h *RecommendationsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationsHandler").Start(r.Context(), "GetRecommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRecommendations"))
	l.DebugContext(ctx, "Recommendations handler invoked")

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	l = l.With(slog.Int64("userID", userID))

	vector, err := h.preferencesService.GetPreferenceVector(ctx, userID)
	if err != nil {
		// An unavailable preference store degrades to the neutral
		// vector instead of losing the whole request.
		l.WarnContext(ctx, "Failed to build preference vector, using empty vector", slog.Any("error", err))
		vector = types.PreferenceVector{}
	}

	recs, err := h.recommendationsService.GetRecommendations(ctx, userID, vector)
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve recommendations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve recommendations")
		return
	}
	if recs == nil {
		recs = []types.ScoredAttraction{}
	}

	m := metrics.Get()
	m.RecommendationRequestsTotal.Add(ctx, 1)
	if len(recs) > 0 {
		m.RecommendationTierTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tier", recs[0].Source),
		))
	}

	l.InfoContext(ctx, "Recommendations resolved", slog.Int("count", len(recs)))
	api.WriteJSONResponse(w, r, http.StatusOK, recs)
}
