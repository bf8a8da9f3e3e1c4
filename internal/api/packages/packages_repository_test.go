package packages

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

func setupPackagesRepoTest(t *testing.T) (*PostgresPackagesRepo, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := NewPackagesRepo(mockPool, logger, time.Minute)
	return repo, mockPool
}

var packageColumns = []string{
	"package_id", "city",
	"name1", "category1", "price1", "rating1",
	"name2", "category2", "price2", "rating2",
	"name3", "category3", "price3", "rating3",
	"name4", "category4", "price4", "rating4",
	"name5", "category5", "price5", "rating5",
}

func TestPostgresPackagesRepo_ListPackagesWithStops(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates stop slots into a candidate", func(t *testing.T) {
		repo, mockPool := setupPackagesRepoTest(t)

		city := "Jakarta"
		name1, name2, name3 := "Monas", "Kota Tua", "Ancol"
		cat1, cat2 := "Sejarah", "Bahari"
		price1, price2 := 20000.0, 25000.0
		rating1, rating3 := 4.0, 5.0

		rows := pgxmock.NewRows(packageColumns).AddRow(
			int64(1), &city,
			&name1, &cat1, &price1, &rating1,
			&name2, &cat1, &price2, nil,
			&name3, &cat2, nil, &rating3,
			nil, nil, nil, nil,
			nil, nil, nil, nil,
		)
		mockPool.ExpectQuery("SELECT(.|\n)*FROM tourism_packages tp").
			WithArgs((*string)(nil)).
			WillReturnRows(rows)

		candidates, err := repo.ListPackagesWithStops(ctx, nil)
		require.NoError(t, err)
		require.Len(t, candidates, 1)

		pc := candidates[0]
		assert.Equal(t, int64(1), pc.PackageID)
		assert.Equal(t, "Jakarta", pc.City)
		assert.Equal(t, 3, pc.Stops)
		assert.Equal(t, []string{"Monas", "Kota Tua", "Ancol"}, pc.Itinerary)
		// duplicate stop category appears once, in first-seen order
		assert.Equal(t, []string{"Sejarah", "Bahari"}, pc.Categories)
		require.NotNil(t, pc.TotalPrice)
		assert.Equal(t, 45000.0, *pc.TotalPrice)
		require.NotNil(t, pc.AvgRating)
		assert.Equal(t, 4.5, *pc.AvgRating)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("package with no priced stops keeps a nil total", func(t *testing.T) {
		repo, mockPool := setupPackagesRepoTest(t)

		city := "Bandung"
		name1 := "Kawah Putih"
		cat1 := "Cagar Alam"

		rows := pgxmock.NewRows(packageColumns).AddRow(
			int64(2), &city,
			&name1, &cat1, nil, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil,
		)
		mockPool.ExpectQuery("SELECT(.|\n)*FROM tourism_packages tp").
			WithArgs((*string)(nil)).
			WillReturnRows(rows)

		candidates, err := repo.ListPackagesWithStops(ctx, nil)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Nil(t, candidates[0].TotalPrice)
		assert.Nil(t, candidates[0].AvgRating)
		assert.Equal(t, 1, candidates[0].Stops)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("city filter is passed as the bind parameter", func(t *testing.T) {
		repo, mockPool := setupPackagesRepoTest(t)

		city := "Surabaya"
		mockPool.ExpectQuery("SELECT(.|\n)*FROM tourism_packages tp").
			WithArgs(&city).
			WillReturnRows(pgxmock.NewRows(packageColumns))

		candidates, err := repo.ListPackagesWithStops(ctx, &city)
		require.NoError(t, err)
		assert.Empty(t, candidates)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresPackagesRepo_GetAvailableCities(t *testing.T) {
	ctx := context.Background()
	repo, mockPool := setupPackagesRepoTest(t)

	mockPool.ExpectQuery("SELECT DISTINCT city").
		WillReturnRows(pgxmock.NewRows([]string{"city"}).AddRow("Bandung").AddRow("Jakarta"))

	cities, err := repo.GetAvailableCities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bandung", "Jakarta"}, cities)

	// second call is served from the filter cache, no new query expected
	cached, err := repo.GetAvailableCities(ctx)
	require.NoError(t, err)
	assert.Equal(t, cities, cached)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
