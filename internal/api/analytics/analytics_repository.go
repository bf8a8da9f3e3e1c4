package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

var _ AnalyticsRepo = (*PostgresAnalyticsRepo)(nil)

// AnalyticsRepo serves the dashboard's read-only aggregate views.
type AnalyticsRepo interface {
	GetPopularPlaces(ctx context.Context, limit int) ([]types.PopularPlace, error)
	GetCityDemand(ctx context.Context) ([]types.CityDemand, error)
	GetCategorySatisfaction(ctx context.Context) ([]types.CategorySatisfaction, error)
	GetPriceSegments(ctx context.Context) ([]types.PriceSegment, error)
	GetRatingsTimeline(ctx context.Context, limit int) ([]types.RatingsTimelinePoint, error)
	GetEntityCounts(ctx context.Context) (*types.EntityCounts, error)
	GetUsersOverview(ctx context.Context, limit int) ([]types.UserOverview, error)
	GetRecentRatings(ctx context.Context, limit int) ([]types.RecentRating, error)
	GetPackageCoverage(ctx context.Context) ([]types.PackageCoverage, error)
}

type PostgresAnalyticsRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewAnalyticsRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresAnalyticsRepo {
	return &PostgresAnalyticsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAnalyticsRepo) GetPopularPlaces(ctx context.Context, limit int) ([]types.PopularPlace, error) {
	query := `
        SELECT
            ta.place_name,
            ta.city,
            COUNT(r.rating) AS rating_count,
            AVG(r.rating) AS avg_user_rating,
            ta.overall_rating
        FROM tourism_attractions ta
        LEFT JOIN ratings r ON r.place_id = ta.place_id
        GROUP BY ta.place_id
        ORDER BY rating_count DESC, avg_user_rating DESC NULLS LAST
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular places: %w", err)
	}
	defer rows.Close()

	var places []types.PopularPlace
	for rows.Next() {
		var p types.PopularPlace
		if err := rows.Scan(&p.PlaceName, &p.City, &p.RatingCount, &p.AvgUserRating, &p.OverallRating); err != nil {
			return nil, fmt.Errorf("failed to scan popular place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (r *PostgresAnalyticsRepo) GetCityDemand(ctx context.Context) ([]types.CityDemand, error) {
	query := `
        SELECT city, COUNT(*) AS attractions, AVG(overall_rating) AS avg_rating
        FROM tourism_attractions
        GROUP BY city
        ORDER BY attractions DESC
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query city demand: %w", err)
	}
	defer rows.Close()

	var demand []types.CityDemand
	for rows.Next() {
		var d types.CityDemand
		if err := rows.Scan(&d.City, &d.Attractions, &d.AvgRating); err != nil {
			return nil, fmt.Errorf("failed to scan city demand: %w", err)
		}
		demand = append(demand, d)
	}
	return demand, rows.Err()
}

func (r *PostgresAnalyticsRepo) GetCategorySatisfaction(ctx context.Context) ([]types.CategorySatisfaction, error) {
	query := `
        SELECT category, COUNT(*) AS cnt, AVG(overall_rating) AS avg_rating
        FROM tourism_attractions
        GROUP BY category
        ORDER BY avg_rating DESC NULLS LAST
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category satisfaction: %w", err)
	}
	defer rows.Close()

	var satisfaction []types.CategorySatisfaction
	for rows.Next() {
		var cs types.CategorySatisfaction
		if err := rows.Scan(&cs.Category, &cs.Count, &cs.AvgRating); err != nil {
			return nil, fmt.Errorf("failed to scan category satisfaction: %w", err)
		}
		satisfaction = append(satisfaction, cs)
	}
	return satisfaction, rows.Err()
}

// GetPriceSegments groups attractions into the same price bands the
// package ranker buckets with.
func (r *PostgresAnalyticsRepo) GetPriceSegments(ctx context.Context) ([]types.PriceSegment, error) {
	query := `
        SELECT
            CASE
                WHEN price < 50000 THEN 'low'
                WHEN price BETWEEN 50000 AND 150000 THEN 'medium'
                ELSE 'high'
            END AS price_segment,
            COUNT(*) AS attractions,
            AVG(overall_rating) AS avg_rating,
            AVG(price) AS avg_price
        FROM tourism_attractions
        WHERE price IS NOT NULL
        GROUP BY price_segment
        ORDER BY avg_price
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price segments: %w", err)
	}
	defer rows.Close()

	var segments []types.PriceSegment
	for rows.Next() {
		var seg types.PriceSegment
		if err := rows.Scan(&seg.Segment, &seg.Attractions, &seg.AvgRating, &seg.AvgPrice); err != nil {
			return nil, fmt.Errorf("failed to scan price segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// GetRatingsTimeline returns the most recent days of rating activity,
// oldest first for charting.
func (r *PostgresAnalyticsRepo) GetRatingsTimeline(ctx context.Context, limit int) ([]types.RatingsTimelinePoint, error) {
	query := `
        SELECT
            DATE(rated_at) AS rated_date,
            AVG(rating) AS avg_rating,
            COUNT(*) AS rating_count
        FROM ratings
        WHERE rated_at IS NOT NULL
        GROUP BY rated_date
        ORDER BY rated_date DESC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings timeline: %w", err)
	}
	defer rows.Close()

	var points []types.RatingsTimelinePoint
	for rows.Next() {
		var p types.RatingsTimelinePoint
		var avg any
		if err := rows.Scan(&p.RatedDate, &avg, &p.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan timeline point: %w", err)
		}
		p.AvgRating = types.ToFloat(avg, 0)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].RatedDate.Before(points[j].RatedDate)
	})
	return points, nil
}

func (r *PostgresAnalyticsRepo) GetEntityCounts(ctx context.Context) (*types.EntityCounts, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM users) AS users_count,
            (SELECT COUNT(*) FROM tourism_attractions) AS attractions_count,
            (SELECT COUNT(*) FROM tourism_packages) AS packages_count,
            (SELECT COUNT(*) FROM ratings) AS ratings_count
    `
	var counts types.EntityCounts
	if err := r.pgpool.QueryRow(ctx, query).Scan(
		&counts.Users, &counts.Attractions, &counts.Packages, &counts.Ratings,
	); err != nil {
		if err == pgx.ErrNoRows {
			return &types.EntityCounts{}, nil
		}
		return nil, fmt.Errorf("failed to query entity counts: %w", err)
	}
	return &counts, nil
}

func (r *PostgresAnalyticsRepo) GetUsersOverview(ctx context.Context, limit int) ([]types.UserOverview, error) {
	query := `
        SELECT
            u.user_id,
            u.location,
            u.age,
            COUNT(r.rating) AS rating_count,
            AVG(r.rating) AS avg_user_rating
        FROM users u
        LEFT JOIN ratings r ON r.user_id = u.user_id
        GROUP BY u.user_id, u.location, u.age
        ORDER BY rating_count DESC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query users overview: %w", err)
	}
	defer rows.Close()

	var overview []types.UserOverview
	for rows.Next() {
		var uo types.UserOverview
		if err := rows.Scan(&uo.UserID, &uo.Location, &uo.Age, &uo.RatingCount, &uo.AvgUserRating); err != nil {
			return nil, fmt.Errorf("failed to scan user overview: %w", err)
		}
		overview = append(overview, uo)
	}
	return overview, rows.Err()
}

func (r *PostgresAnalyticsRepo) GetRecentRatings(ctx context.Context, limit int) ([]types.RecentRating, error) {
	query := `
        SELECT
            r.user_id,
            u.location,
            r.place_id,
            ta.place_name,
            ta.city,
            r.rating,
            r.rated_at
        FROM ratings r
        LEFT JOIN users u ON u.user_id = r.user_id
        LEFT JOIN tourism_attractions ta ON ta.place_id = r.place_id
        ORDER BY r.rated_at DESC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent ratings: %w", err)
	}
	defer rows.Close()

	var recent []types.RecentRating
	for rows.Next() {
		var rr types.RecentRating
		var rating any
		if err := rows.Scan(&rr.UserID, &rr.Location, &rr.PlaceID, &rr.PlaceName, &rr.City, &rating, &rr.RatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent rating: %w", err)
		}
		rr.Rating = types.ToFloat(rating, 0)
		recent = append(recent, rr)
	}
	return recent, rows.Err()
}

func (r *PostgresAnalyticsRepo) GetPackageCoverage(ctx context.Context) ([]types.PackageCoverage, error) {
	query := `
        SELECT
            city,
            COUNT(*) AS package_count,
            SUM(
                (place_tourism1_id IS NOT NULL)::int +
                (place_tourism2_id IS NOT NULL)::int +
                (place_tourism3_id IS NOT NULL)::int +
                (place_tourism4_id IS NOT NULL)::int +
                (place_tourism5_id IS NOT NULL)::int
            ) AS total_stops
        FROM tourism_packages
        WHERE city IS NOT NULL
        GROUP BY city
        ORDER BY package_count DESC
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query package coverage: %w", err)
	}
	defer rows.Close()

	var coverage []types.PackageCoverage
	for rows.Next() {
		var pc types.PackageCoverage
		if err := rows.Scan(&pc.City, &pc.PackageCount, &pc.TotalStops); err != nil {
			return nil, fmt.Errorf("failed to scan package coverage: %w", err)
		}
		coverage = append(coverage, pc)
	}
	return coverage, rows.Err()
}
