package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

// Ensure implementation satisfies the interface
var _ AnalyticsService = (*AnalyticsServiceImpl)(nil)

// AnalyticsService exposes the dashboard aggregates.
type AnalyticsService interface {
	GetDashboardOverview(ctx context.Context) (*DashboardOverview, error)
	GetPopularPlaces(ctx context.Context, limit int) ([]types.PopularPlace, error)
	GetRatingsTimeline(ctx context.Context, limit int) ([]types.RatingsTimelinePoint, error)
	GetUsersOverview(ctx context.Context, limit int) ([]types.UserOverview, error)
	GetRecentRatings(ctx context.Context, limit int) ([]types.RecentRating, error)
}

// DashboardOverview bundles the headline widgets into one response.
type DashboardOverview struct {
	Counts               *types.EntityCounts          `json:"counts"`
	CityDemand           []types.CityDemand           `json:"city_demand"`
	CategorySatisfaction []types.CategorySatisfaction `json:"category_satisfaction"`
	PriceSegments        []types.PriceSegment         `json:"price_segments"`
	PackageCoverage      []types.PackageCoverage      `json:"package_coverage"`
}

// AnalyticsServiceImpl provides the implementation for AnalyticsService.
type AnalyticsServiceImpl struct {
	logger *slog.Logger
	repo   AnalyticsRepo
}

// NewAnalyticsService creates a new analytics service instance.
func NewAnalyticsService(repo AnalyticsRepo, logger *slog.Logger) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetDashboardOverview assembles the headline aggregates. Queries run
// sequentially; the dashboard is a low-traffic admin surface.
func (s *AnalyticsServiceImpl) GetDashboardOverview(ctx context.Context) (*DashboardOverview, error) {
	ctx, span := otel.Tracer("AnalyticsService").Start(ctx, "GetDashboardOverview")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetDashboardOverview"))

	counts, err := s.repo.GetEntityCounts(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch entity counts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch entity counts")
		return nil, fmt.Errorf("error fetching entity counts: %w", err)
	}

	cityDemand, err := s.repo.GetCityDemand(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching city demand: %w", err)
	}
	satisfaction, err := s.repo.GetCategorySatisfaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching category satisfaction: %w", err)
	}
	segments, err := s.repo.GetPriceSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching price segments: %w", err)
	}
	coverage, err := s.repo.GetPackageCoverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching package coverage: %w", err)
	}

	span.SetStatus(codes.Ok, "Dashboard overview assembled")
	return &DashboardOverview{
		Counts:               counts,
		CityDemand:           cityDemand,
		CategorySatisfaction: satisfaction,
		PriceSegments:        segments,
		PackageCoverage:      coverage,
	}, nil
}

func (s *AnalyticsServiceImpl) GetPopularPlaces(ctx context.Context, limit int) ([]types.PopularPlace, error) {
	places, err := s.repo.GetPopularPlaces(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch popular places", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching popular places: %w", err)
	}
	return places, nil
}

func (s *AnalyticsServiceImpl) GetRatingsTimeline(ctx context.Context, limit int) ([]types.RatingsTimelinePoint, error) {
	timeline, err := s.repo.GetRatingsTimeline(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch ratings timeline", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching ratings timeline: %w", err)
	}
	return timeline, nil
}

func (s *AnalyticsServiceImpl) GetUsersOverview(ctx context.Context, limit int) ([]types.UserOverview, error) {
	overview, err := s.repo.GetUsersOverview(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch users overview", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching users overview: %w", err)
	}
	return overview, nil
}

func (s *AnalyticsServiceImpl) GetRecentRatings(ctx context.Context, limit int) ([]types.RecentRating, error) {
	recent, err := s.repo.GetRecentRatings(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch recent ratings", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching recent ratings: %w", err)
	}
	return recent, nil
}
