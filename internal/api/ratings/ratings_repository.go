package ratings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

var _ RatingsRepo = (*PostgresRatingsRepo)(nil)

// RatingsRepo persists user ratings and lists the attractions they can
// rate.
type RatingsRepo interface {
	ListAttractions(ctx context.Context) ([]types.AttractionSummary, error)
	UpsertRating(ctx context.Context, userID, placeID int64, rating float64) error
	DeleteRating(ctx context.Context, userID, placeID int64) (bool, error)
}

type PostgresRatingsRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewRatingsRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresRatingsRepo {
	return &PostgresRatingsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresRatingsRepo) ListAttractions(ctx context.Context) ([]types.AttractionSummary, error) {
	query := `
        SELECT place_id, place_name, city, category
        FROM tourism_attractions
        ORDER BY place_name
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attractions: %w", err)
	}
	defer rows.Close()

	var attractions []types.AttractionSummary
	for rows.Next() {
		var a types.AttractionSummary
		if err := rows.Scan(&a.PlaceID, &a.PlaceName, &a.City, &a.Category); err != nil {
			return nil, fmt.Errorf("failed to scan attraction summary: %w", err)
		}
		attractions = append(attractions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attractions: %w", err)
	}
	return attractions, nil
}

// UpsertRating stores one rating per (user, place); re-rating the same
// place overwrites the previous value and refreshes the timestamp.
func (r *PostgresRatingsRepo) UpsertRating(ctx context.Context, userID, placeID int64, rating float64) error {
	query := `
        INSERT INTO ratings (user_id, place_id, rating, rated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (user_id, place_id) DO UPDATE
            SET rating = EXCLUDED.rating,
                rated_at = EXCLUDED.rated_at
    `
	if _, err := r.pgpool.Exec(ctx, query, userID, placeID, rating); err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

func (r *PostgresRatingsRepo) DeleteRating(ctx context.Context, userID, placeID int64) (bool, error) {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM ratings WHERE user_id = $1 AND place_id = $2`,
		userID, placeID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
