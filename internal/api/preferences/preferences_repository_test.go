package preferences

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPreferencesRepoTest(t *testing.T) (*PostgresPreferencesRepo, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := NewPreferencesRepo(mockPool, logger)
	return repo, mockPool
}

func TestPostgresPreferencesRepo_GetUserPreferenceRows(t *testing.T) {
	ctx := context.Background()
	repo, mockPool := setupPreferencesRepoTest(t)
	userID := int64(42)

	rows := pgxmock.NewRows([]string{"preference_type", "preference_key", "preference_value"}).
		AddRow("category_preference", "Budaya", "0.8").
		AddRow("city_preference", "Jakarta", 1.0)
	mockPool.ExpectQuery("SELECT preference_type, preference_key, preference_value").
		WithArgs(userID).
		WillReturnRows(rows)

	prefs, err := repo.GetUserPreferenceRows(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, 2)

	// values keep whatever shape the driver returned
	assert.Equal(t, "category_preference", prefs[0].Type)
	assert.Equal(t, "Budaya", prefs[0].Key)
	assert.Equal(t, "0.8", prefs[0].Value)
	assert.Equal(t, 1.0, prefs[1].Value)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresPreferencesRepo_GetUserRatings(t *testing.T) {
	ctx := context.Background()
	repo, mockPool := setupPreferencesRepoTest(t)
	userID := int64(42)

	price := 25000.0
	ratedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"place_id", "place_name", "category", "city", "price", "overall_rating", "rating", "rated_at",
	}).AddRow(int64(7), "Kota Tua", "Sejarah", "Jakarta", &price, nil, 4.5, ratedAt)
	mockPool.ExpectQuery("FROM ratings r").
		WithArgs(userID).
		WillReturnRows(rows)

	ratings, err := repo.GetUserRatings(ctx, userID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)

	ur := ratings[0]
	assert.Equal(t, int64(7), ur.PlaceID)
	assert.Equal(t, "Kota Tua", ur.PlaceName)
	require.NotNil(t, ur.Price)
	assert.Equal(t, 25000.0, *ur.Price)
	assert.Nil(t, ur.OverallRating)
	assert.Equal(t, 4.5, ur.Rating)
	assert.Equal(t, ratedAt, ur.RatedAt)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresPreferencesRepo_GetUserProfile(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	t.Run("found", func(t *testing.T) {
		repo, mockPool := setupPreferencesRepoTest(t)
		location := "Jakarta"
		age := 29
		mockPool.ExpectQuery("SELECT user_id, location, age").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "location", "age"}).
				AddRow(userID, &location, &age))

		profile, err := repo.GetUserProfile(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, userID, profile.UserID)
		require.NotNil(t, profile.Location)
		assert.Equal(t, "Jakarta", *profile.Location)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing profile is nil, not an error", func(t *testing.T) {
		repo, mockPool := setupPreferencesRepoTest(t)
		mockPool.ExpectQuery("SELECT user_id, location, age").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "location", "age"}))

		profile, err := repo.GetUserProfile(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, profile)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
