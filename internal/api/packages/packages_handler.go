package packages

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-tourism-recommender/app/middleware"
	"github.com/FACorreiaa/go-tourism-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/preferences"
	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

type PackagesHandler struct {
	packagesService    PackagesService
	preferencesService preferences.PreferencesService
	logger             *slog.Logger
}

func NewPackagesHandler(
	packagesService PackagesService,
	preferencesService preferences.PreferencesService,
	logger *slog.Logger,
) *PackagesHandler {
	return &PackagesHandler{
		packagesService:    packagesService,
		preferencesService: preferencesService,
		logger:             logger,
	}
}

// SearchPackages handles the search/browse flow: optional city,
// category and price bound query parameters, ranked with the
// authenticated user's preference vector.
func (h *PackagesHandler) SearchPackages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PackagesHandler").Start(r.Context(), "SearchPackages", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/packages/search"),
	))
	defer span.End()

	start := time.Now()
	l := h.logger.With(slog.String("handler", "SearchPackages"))
	l.DebugContext(ctx, "Search packages handler invoked")

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	minPrice, err := api.QueryFloat(r, "min_price")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	maxPrice, err := api.QueryFloat(r, "max_price")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	filter := types.PackageFilter{
		City:     api.QueryString(r, "city"),
		Category: api.QueryString(r, "category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	vector, err := h.preferencesService.GetPreferenceVector(ctx, userID)
	if err != nil {
		l.WarnContext(ctx, "Failed to build preference vector, using empty vector", slog.Any("error", err))
		vector = types.PreferenceVector{}
	}

	ranked, err := h.packagesService.SearchPackages(ctx, filter, vector)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search packages", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search packages")
		return
	}
	if ranked == nil {
		ranked = []types.RankedPackage{}
	}

	metrics.Get().PackageSearchDuration.Record(ctx, time.Since(start).Seconds())

	l.InfoContext(ctx, "Package search completed", slog.Int("count", len(ranked)))
	api.WriteJSONResponse(w, r, http.StatusOK, ranked)
}

// GetFilters returns the distinct city and category values for the
// search form.
func (h *PackagesHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetFilters"))

	cities, err := h.packagesService.GetAvailableCities(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch available cities", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch filters")
		return
	}
	categories, err := h.packagesService.GetAvailableCategories(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch available categories", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch filters")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"cities":     cities,
		"categories": categories,
	})
}
