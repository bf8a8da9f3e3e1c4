package packages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

var _ PackagesRepo = (*PostgresPackagesRepo)(nil)

// PackagesRepo reads packages joined with their ordered stops, plus
// the distinct filter values the UI offers.
type PackagesRepo interface {
	ListPackagesWithStops(ctx context.Context, cityFilter *string) ([]types.PackageCandidate, error)
	GetAvailableCities(ctx context.Context) ([]string, error)
	GetAvailableCategories(ctx context.Context) ([]string, error)
}

type PostgresPackagesRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
	// Filter dropdown values change rarely; cached with TTL so the
	// search page does not hit the catalog on every render.
	filterCache *cache.Cache
}

func NewPackagesRepo(pgxpool api.PGXPool, logger *slog.Logger, filterTTL time.Duration) *PostgresPackagesRepo {
	if filterTTL <= 0 {
		filterTTL = 10 * time.Minute
	}
	return &PostgresPackagesRepo{
		logger:      logger,
		pgpool:      pgxpool,
		filterCache: cache.New(filterTTL, filterTTL),
	}
}

// ListPackagesWithStops joins each package with its up to five stop
// attractions, slot order preserved. The city filter is an exact match
// applied at the join stage.
func (r *PostgresPackagesRepo) ListPackagesWithStops(ctx context.Context, cityFilter *string) ([]types.PackageCandidate, error) {
	query := `
        SELECT
            tp.package_id,
            tp.city,
            ta1.place_name, ta1.category, ta1.price, ta1.overall_rating,
            ta2.place_name, ta2.category, ta2.price, ta2.overall_rating,
            ta3.place_name, ta3.category, ta3.price, ta3.overall_rating,
            ta4.place_name, ta4.category, ta4.price, ta4.overall_rating,
            ta5.place_name, ta5.category, ta5.price, ta5.overall_rating
        FROM tourism_packages tp
        LEFT JOIN tourism_attractions ta1 ON ta1.place_id = tp.place_tourism1_id
        LEFT JOIN tourism_attractions ta2 ON ta2.place_id = tp.place_tourism2_id
        LEFT JOIN tourism_attractions ta3 ON ta3.place_id = tp.place_tourism3_id
        LEFT JOIN tourism_attractions ta4 ON ta4.place_id = tp.place_tourism4_id
        LEFT JOIN tourism_attractions ta5 ON ta5.place_id = tp.place_tourism5_id
        WHERE $1::text IS NULL OR tp.city = $1
        ORDER BY tp.package_id
    `
	rows, err := r.pgpool.Query(ctx, query, cityFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages with stops: %w", err)
	}
	defer rows.Close()

	var candidates []types.PackageCandidate
	for rows.Next() {
		var (
			pc      types.PackageCandidate
			city    *string
			names   [5]*string
			cats    [5]*string
			prices  [5]*float64
			ratings [5]*float64
		)
		if err := rows.Scan(
			&pc.PackageID, &city,
			&names[0], &cats[0], &prices[0], &ratings[0],
			&names[1], &cats[1], &prices[1], &ratings[1],
			&names[2], &cats[2], &prices[2], &ratings[2],
			&names[3], &cats[3], &prices[3], &ratings[3],
			&names[4], &cats[4], &prices[4], &ratings[4],
		); err != nil {
			return nil, fmt.Errorf("failed to scan package row: %w", err)
		}
		if city != nil {
			pc.City = *city
		}
		aggregateStops(&pc, names, cats, prices, ratings)
		candidates = append(candidates, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package rows: %w", err)
	}
	return candidates, nil
}

// aggregateStops folds the five stop slots into the candidate:
// itinerary in slot order, categories as a distinct first-seen set,
// total price as the sum over priced stops, avg rating as the mean
// over rated stops and the count of non-empty slots.
func aggregateStops(pc *types.PackageCandidate, names, cats [5]*string, prices, ratings [5]*float64) {
	seenCategories := map[string]bool{}
	var priceSum float64
	var pricedStops int
	var ratingSum float64
	var ratedStops int

	for i := 0; i < 5; i++ {
		if names[i] == nil {
			continue
		}
		pc.Stops++
		pc.Itinerary = append(pc.Itinerary, *names[i])
		if cats[i] != nil && !seenCategories[*cats[i]] {
			seenCategories[*cats[i]] = true
			pc.Categories = append(pc.Categories, *cats[i])
		}
		if prices[i] != nil {
			priceSum += *prices[i]
			pricedStops++
		}
		if ratings[i] != nil {
			ratingSum += *ratings[i]
			ratedStops++
		}
	}

	if pricedStops > 0 {
		pc.TotalPrice = &priceSum
	}
	if ratedStops > 0 {
		avg := ratingSum / float64(ratedStops)
		pc.AvgRating = &avg
	}
}

func (r *PostgresPackagesRepo) GetAvailableCities(ctx context.Context) ([]string, error) {
	const cacheKey = "available_cities"
	if cached, found := r.filterCache.Get(cacheKey); found {
		return cached.([]string), nil
	}

	query := `
        SELECT DISTINCT city
        FROM tourism_packages
        WHERE city IS NOT NULL
        ORDER BY city
    `
	cities, err := r.queryStrings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query available cities: %w", err)
	}
	r.filterCache.Set(cacheKey, cities, cache.DefaultExpiration)
	return cities, nil
}

func (r *PostgresPackagesRepo) GetAvailableCategories(ctx context.Context) ([]string, error) {
	const cacheKey = "available_categories"
	if cached, found := r.filterCache.Get(cacheKey); found {
		return cached.([]string), nil
	}

	query := `
        SELECT DISTINCT category
        FROM tourism_attractions
        WHERE category IS NOT NULL
        ORDER BY category
    `
	categories, err := r.queryStrings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query available categories: %w", err)
	}
	r.filterCache.Set(cacheKey, categories, cache.DefaultExpiration)
	return categories, nil
}

func (r *PostgresPackagesRepo) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
