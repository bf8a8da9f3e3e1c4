package analytics

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	logger           *slog.Logger
}

func NewAnalyticsHandler(analyticsService AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

func (h *AnalyticsHandler) GetDashboardOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetDashboardOverview"))

	overview, err := h.analyticsService.GetDashboardOverview(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to assemble dashboard overview", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to assemble dashboard overview")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetPopularPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPopularPlaces"))

	limit := api.QueryInt(r, "limit", 10)
	places, err := h.analyticsService.GetPopularPlaces(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch popular places", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch popular places")
		return
	}
	if places == nil {
		places = []types.PopularPlace{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, places)
}

func (h *AnalyticsHandler) GetRatingsTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetRatingsTimeline"))

	limit := api.QueryInt(r, "limit", 30)
	timeline, err := h.analyticsService.GetRatingsTimeline(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch ratings timeline", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch ratings timeline")
		return
	}
	if timeline == nil {
		timeline = []types.RatingsTimelinePoint{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, timeline)
}

func (h *AnalyticsHandler) GetUsersOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUsersOverview"))

	limit := api.QueryInt(r, "limit", 100)
	overview, err := h.analyticsService.GetUsersOverview(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch users overview", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch users overview")
		return
	}
	if overview == nil {
		overview = []types.UserOverview{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetRecentRatings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetRecentRatings"))

	limit := api.QueryInt(r, "limit", 50)
	recent, err := h.analyticsService.GetRecentRatings(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch recent ratings", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch recent ratings")
		return
	}
	if recent == nil {
		recent = []types.RecentRating{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, recent)
}
