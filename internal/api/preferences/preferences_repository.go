package preferences

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

var _ PreferencesRepo = (*PostgresPreferencesRepo)(nil)

// PreferencesRepo reads a user's persisted preference signals.
type PreferencesRepo interface {
	GetUserPreferenceRows(ctx context.Context, userID int64) ([]types.PreferenceRow, error)
	GetUserRatings(ctx context.Context, userID int64) ([]types.UserRating, error)
	GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error)
}

type PostgresPreferencesRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPreferencesRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresPreferencesRepo {
	return &PostgresPreferencesRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresPreferencesRepo) GetUserPreferenceRows(ctx context.Context, userID int64) ([]types.PreferenceRow, error) {
	query := `
        SELECT preference_type, preference_key, preference_value
        FROM user_preferences
        WHERE user_id = $1
        ORDER BY preference_type, preference_key
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	defer rows.Close()

	var prefs []types.PreferenceRow
	for rows.Next() {
		var p types.PreferenceRow
		if err := rows.Scan(&p.Type, &p.Key, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preference rows: %w", err)
	}
	return prefs, nil
}

func (r *PostgresPreferencesRepo) GetUserRatings(ctx context.Context, userID int64) ([]types.UserRating, error) {
	query := `
        SELECT
            r.place_id,
            ta.place_name,
            ta.category,
            ta.city,
            ta.price,
            ta.overall_rating,
            r.rating,
            r.rated_at
        FROM ratings r
        JOIN tourism_attractions ta ON ta.place_id = r.place_id
        WHERE r.user_id = $1
        ORDER BY r.rated_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer rows.Close()

	var ratings []types.UserRating
	for rows.Next() {
		var ur types.UserRating
		if err := rows.Scan(
			&ur.PlaceID, &ur.PlaceName, &ur.Category, &ur.City,
			&ur.Price, &ur.OverallRating, &ur.Rating, &ur.RatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user rating: %w", err)
		}
		ratings = append(ratings, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ratings: %w", err)
	}
	return ratings, nil
}

func (r *PostgresPreferencesRepo) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	query := `
        SELECT user_id, location, age
        FROM users
        WHERE user_id = $1
    `
	var profile types.UserProfile
	if err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.Location, &profile.Age,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}
	return &profile, nil
}
