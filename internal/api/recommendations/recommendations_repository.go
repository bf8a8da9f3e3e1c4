package recommendations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

var _ RecommendationsRepo = (*PostgresRecommendationsRepo)(nil)

// RecommendationSet is what the stored recommendation routine handed
// back: either tabular rows, or an encoded payload the service still
// has to parse. At most one of the two fields is set.
type RecommendationSet struct {
	Rows    []types.ScoredAttraction
	Payload string
}

// RecommendationsRepo is the read-only catalog surface the resolver
// tiers consume.
type RecommendationsRepo interface {
	GetFunctionScores(ctx context.Context, userID int64, limit int) ([]types.ScoredAttraction, error)
	GetRecommendationSet(ctx context.Context, userID int64) (*RecommendationSet, error)
	ListAttractions(ctx context.Context) ([]types.Attraction, error)
	GetUserCategoryMeans(ctx context.Context, userID int64) ([]types.CategoryMeanRating, error)
}

type PostgresRecommendationsRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewRecommendationsRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresRecommendationsRepo {
	return &PostgresRecommendationsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

// GetFunctionScores asks the catalog to score every attraction for
// this user through the get_recommendation_score SQL function. The
// query fails as a whole when the function is missing; the caller
// treats that as the tier being unavailable.
func (r *PostgresRecommendationsRepo) GetFunctionScores(ctx context.Context, userID int64, limit int) ([]types.ScoredAttraction, error) {
	query := `
        SELECT
            ta.place_id,
            ta.place_name,
            ta.category,
            ta.city,
            ta.price,
            ta.overall_rating,
            get_recommendation_score($1, ta.place_id) AS recommendation_score
        FROM tourism_attractions ta
        ORDER BY recommendation_score DESC NULLS LAST
        LIMIT $2
    `
	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query function scores: %w", err)
	}
	defer rows.Close()

	var scored []types.ScoredAttraction
	for rows.Next() {
		var sa types.ScoredAttraction
		var score *float64
		if err := rows.Scan(
			&sa.PlaceID, &sa.PlaceName, &sa.Category, &sa.City,
			&sa.Price, &sa.OverallRating, &score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan function score row: %w", err)
		}
		sa.Score = types.ToFloat(score, 0)
		scored = append(scored, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating function score rows: %w", err)
	}
	return scored, nil
}

// GetRecommendationSet runs the stored get_recommendations routine.
// It first treats the routine as set-returning; if that fails it falls
// back to reading it as a scalar returning an encoded payload.
func (r *PostgresRecommendationsRepo) GetRecommendationSet(ctx context.Context, userID int64) (*RecommendationSet, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT * FROM get_recommendations($1)`, userID)
	if err == nil {
		defer rows.Close()

		fields := rows.FieldDescriptions()
		var scored []types.ScoredAttraction
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return nil, fmt.Errorf("failed to read recommendation set row: %w", err)
			}
			record := map[string]any{}
			for i, fd := range fields {
				if i < len(values) {
					record[strings.ToLower(fd.Name)] = values[i]
				}
			}
			scored = append(scored, scoredFromRecord(record))
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating recommendation set rows: %w", err)
		}
		return &RecommendationSet{Rows: scored}, nil
	}

	// The routine may be a scalar function returning an encoded payload.
	var payload *string
	if scanErr := r.pgpool.QueryRow(ctx, `SELECT get_recommendations($1) AS payload`, userID).Scan(&payload); scanErr != nil {
		return nil, fmt.Errorf("failed to call get_recommendations: %w", scanErr)
	}
	if payload == nil {
		return &RecommendationSet{}, nil
	}
	return &RecommendationSet{Payload: *payload}, nil
}

func (r *PostgresRecommendationsRepo) ListAttractions(ctx context.Context) ([]types.Attraction, error) {
	query := `
        SELECT place_id, place_name, category, city, price, overall_rating
        FROM tourism_attractions
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attractions: %w", err)
	}
	defer rows.Close()

	var attractions []types.Attraction
	for rows.Next() {
		var a types.Attraction
		if err := rows.Scan(
			&a.PlaceID, &a.PlaceName, &a.Category, &a.City, &a.Price, &a.OverallRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attraction: %w", err)
		}
		attractions = append(attractions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attractions: %w", err)
	}
	return attractions, nil
}

// GetUserCategoryMeans returns the user's average rating per category
// across everything they have rated.
func (r *PostgresRecommendationsRepo) GetUserCategoryMeans(ctx context.Context, userID int64) ([]types.CategoryMeanRating, error) {
	query := `
        SELECT ta.category, AVG(r.rating) AS mean_rating
        FROM ratings r
        JOIN tourism_attractions ta ON ta.place_id = r.place_id
        WHERE r.user_id = $1
        GROUP BY ta.category
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category means: %w", err)
	}
	defer rows.Close()

	var means []types.CategoryMeanRating
	for rows.Next() {
		var cm types.CategoryMeanRating
		var mean any
		if err := rows.Scan(&cm.Category, &mean); err != nil {
			return nil, fmt.Errorf("failed to scan category mean: %w", err)
		}
		cm.MeanRating = types.ToFloat(mean, 0)
		means = append(means, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category means: %w", err)
	}
	return means, nil
}

// scoredFromRecord maps a loosely shaped row from the stored routine
// onto the candidate type, coercing every numeric field.
func scoredFromRecord(record map[string]any) types.ScoredAttraction {
	var sa types.ScoredAttraction
	sa.PlaceID = int64(types.ToFloat(record["place_id"], 0))
	if name, ok := record["place_name"].(string); ok {
		sa.PlaceName = name
	}
	if category, ok := record["category"].(string); ok {
		sa.Category = category
	}
	if city, ok := record["city"].(string); ok {
		sa.City = city
	}
	if _, ok := record["price"]; ok {
		price := types.ToFloat(record["price"], 0)
		sa.Price = &price
	}
	if _, ok := record["overall_rating"]; ok {
		rating := types.ToFloat(record["overall_rating"], 0)
		sa.OverallRating = &rating
	}
	if _, ok := record["recommendation_score"]; ok {
		sa.Score = types.ToFloat(record["recommendation_score"], 0)
	} else {
		sa.Score = types.ToFloat(record["score"], 0)
	}
	if source, ok := record["source"].(string); ok {
		sa.Source = source
	}
	if rec, ok := record["recommendation"].(string); ok {
		sa.Recommendation = rec
	}
	return sa
}
