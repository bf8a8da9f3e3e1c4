package ratings

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appMiddleware "github.com/FACorreiaa/go-tourism-recommender/app/middleware"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

type RatingsHandler struct {
	ratingsService RatingsService
	logger         *slog.Logger
}

func NewRatingsHandler(ratingsService RatingsService, logger *slog.Logger) *RatingsHandler {
	return &RatingsHandler{
		ratingsService: ratingsService,
		logger:         logger,
	}
}

type upsertRatingRequest struct {
	PlaceID int64   `json:"place_id"`
	Rating  float64 `json:"rating"`
}

// ListAttractions returns the attraction picker list.
func (h *RatingsHandler) ListAttractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListAttractions"))

	attractions, err := h.ratingsService.ListAttractions(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list attractions", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list attractions")
		return
	}
	if attractions == nil {
		attractions = []types.AttractionSummary{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, attractions)
}

// UpsertRating stores or overwrites the authenticated user's rating
// for a place.
func (h *RatingsHandler) UpsertRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpsertRating"))

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req upsertRatingRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlaceID <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "place_id is required")
		return
	}

	if err := h.ratingsService.UpsertRating(ctx, userID, req.PlaceID, req.Rating); err != nil {
		l.ErrorContext(ctx, "Failed to store rating", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to store rating")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteRating removes the authenticated user's rating for a place.
func (h *RatingsHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteRating"))

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID")
		return
	}

	deleted, err := h.ratingsService.DeleteRating(ctx, userID, placeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete rating", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete rating")
		return
	}
	if !deleted {
		api.ErrorResponse(w, r, http.StatusNotFound, "Rating not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
