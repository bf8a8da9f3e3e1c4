package ratings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

// Ensure implementation satisfies the interface
var _ RatingsService = (*RatingsServiceImpl)(nil)

// RatingsService is the write surface for user ratings.
type RatingsService interface {
	ListAttractions(ctx context.Context) ([]types.AttractionSummary, error)
	UpsertRating(ctx context.Context, userID, placeID int64, rating float64) error
	DeleteRating(ctx context.Context, userID, placeID int64) (bool, error)
}

// RatingsServiceImpl provides the implementation for RatingsService.
type RatingsServiceImpl struct {
	logger *slog.Logger
	repo   RatingsRepo
}

// NewRatingsService creates a new ratings service instance.
func NewRatingsService(repo RatingsRepo, logger *slog.Logger) *RatingsServiceImpl {
	return &RatingsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *RatingsServiceImpl) ListAttractions(ctx context.Context) ([]types.AttractionSummary, error) {
	attractions, err := s.repo.ListAttractions(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list attractions", slog.Any("error", err))
		return nil, fmt.Errorf("error listing attractions: %w", err)
	}
	return attractions, nil
}

// UpsertRating validates the score range and stores the rating.
func (s *RatingsServiceImpl) UpsertRating(ctx context.Context, userID, placeID int64, rating float64) error {
	l := s.logger.With(slog.String("method", "UpsertRating"),
		slog.Int64("userID", userID), slog.Int64("placeID", placeID))

	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5, got %v", rating)
	}

	if err := s.repo.UpsertRating(ctx, userID, placeID, rating); err != nil {
		l.ErrorContext(ctx, "Failed to upsert rating", slog.Any("error", err))
		return fmt.Errorf("error upserting rating: %w", err)
	}

	l.InfoContext(ctx, "Rating stored", slog.Float64("rating", rating))
	return nil
}

func (s *RatingsServiceImpl) DeleteRating(ctx context.Context, userID, placeID int64) (bool, error) {
	l := s.logger.With(slog.String("method", "DeleteRating"),
		slog.Int64("userID", userID), slog.Int64("placeID", placeID))

	deleted, err := s.repo.DeleteRating(ctx, userID, placeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete rating", slog.Any("error", err))
		return false, fmt.Errorf("error deleting rating: %w", err)
	}
	return deleted, nil
}
