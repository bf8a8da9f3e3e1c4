package packages

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

// City bonus applied when the vector carries no weight for a
// candidate's city. Mildly positive so unfamiliar cities are not
// penalized to zero.
const defaultCityBonus = 0.2

// Ensure implementation satisfies the interface
var _ PackagesService = (*PackagesServiceImpl)(nil)

// PackagesService filters and ranks multi-stop packages.
type PackagesService interface {
	SearchPackages(ctx context.Context, filter types.PackageFilter, vector types.PreferenceVector) ([]types.RankedPackage, error)
	GetAvailableCities(ctx context.Context) ([]string, error)
	GetAvailableCategories(ctx context.Context) ([]string, error)
}

// PackagesServiceImpl provides the implementation for PackagesService.
type PackagesServiceImpl struct {
	logger *slog.Logger
	repo   PackagesRepo
}

// NewPackagesService creates a new packages service instance.
func NewPackagesService(repo PackagesRepo, logger *slog.Logger) *PackagesServiceImpl {
	return &PackagesServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// SearchPackages joins, filters and ranks package candidates. The
// stages run in order (join with city filter, category substring
// filter, inclusive price bounds) and each empty stage short-circuits
// before any scoring. "No matches" is an empty list, never an error.
func (s *PackagesServiceImpl) SearchPackages(ctx context.Context, filter types.PackageFilter, vector types.PreferenceVector) ([]types.RankedPackage, error) {
	ctx, span := otel.Tracer("PackagesService").Start(ctx, "SearchPackages")
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchPackages"))
	l.DebugContext(ctx, "Searching packages")

	candidates, err := s.repo.ListPackagesWithStops(ctx, filter.City)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list packages with stops", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list packages")
		return nil, fmt.Errorf("error listing packages: %w", err)
	}
	if len(candidates) == 0 {
		return []types.RankedPackage{}, nil
	}

	candidates = filterByCategory(candidates, filter.Category)
	if len(candidates) == 0 {
		return []types.RankedPackage{}, nil
	}

	candidates = filterByPrice(candidates, filter.MinPrice, filter.MaxPrice)
	if len(candidates) == 0 {
		return []types.RankedPackage{}, nil
	}

	ranked := rankCandidates(candidates, vector)

	span.SetAttributes(attribute.Int("packages.matched", len(ranked)))
	span.SetStatus(codes.Ok, "Packages ranked")
	l.InfoContext(ctx, "Packages ranked", slog.Int("count", len(ranked)))
	return ranked, nil
}

// filterByCategory keeps candidates whose joined category string
// contains the filter, case-insensitively.
func filterByCategory(candidates []types.PackageCandidate, category *string) []types.PackageCandidate {
	if category == nil || strings.TrimSpace(*category) == "" {
		return candidates
	}
	needle := strings.ToLower(strings.TrimSpace(*category))

	kept := candidates[:0]
	for _, pc := range candidates {
		joined := strings.ToLower(strings.Join(pc.Categories, ", "))
		if strings.Contains(joined, needle) {
			kept = append(kept, pc)
		}
	}
	return kept
}

// filterByPrice applies inclusive total price bounds; either bound may
// be absent. A candidate without a total price fails any set bound.
func filterByPrice(candidates []types.PackageCandidate, minPrice, maxPrice *float64) []types.PackageCandidate {
	if minPrice == nil && maxPrice == nil {
		return candidates
	}

	kept := candidates[:0]
	for _, pc := range candidates {
		if pc.TotalPrice == nil {
			continue
		}
		if minPrice != nil && *pc.TotalPrice < *minPrice {
			continue
		}
		if maxPrice != nil && *pc.TotalPrice > *maxPrice {
			continue
		}
		kept = append(kept, pc)
	}
	return kept
}

// rankCandidates computes the composite ranking score and sorts
// descending. The stable sort keeps ties in input order so results
// are reproducible.
func rankCandidates(candidates []types.PackageCandidate, vector types.PreferenceVector) []types.RankedPackage {
	cityWeights := vector.TypeWeights(types.CityPreference)
	categoryWeights := vector.CategoryWeights()
	priceWeights := vector.TypeWeights(types.PricePreference)

	ranked := make([]types.RankedPackage, 0, len(candidates))
	for _, pc := range candidates {
		bucket := types.PriceBucketFor(pc.TotalPrice)

		cityBonus := defaultCityBonus
		if w, ok := cityWeights[pc.City]; ok {
			cityBonus = w
		}

		priceComponent := priceWeights[bucket]

		// The maximum weight across the package's categories rewards
		// containing at least one strongly preferred category instead
		// of averaging it down.
		categoryComponent := 0.0
		if len(categoryWeights) > 0 {
			for _, cat := range pc.Categories {
				if w := categoryWeights[cat]; w > categoryComponent {
					categoryComponent = w
				}
			}
		}

		avgRating := types.ToFloat(pc.AvgRating, 0)
		score := types.Round3(avgRating*0.6 + cityBonus*2 + priceComponent*1.0 + categoryComponent*0.5)

		ranked = append(ranked, types.RankedPackage{
			PackageCandidate: pc,
			PriceBucket:      bucket,
			RankingScore:     score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankingScore > ranked[j].RankingScore
	})
	return ranked
}

// GetAvailableCities lists the distinct package cities for filters.
func (s *PackagesServiceImpl) GetAvailableCities(ctx context.Context) ([]string, error) {
	cities, err := s.repo.GetAvailableCities(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch available cities", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching available cities: %w", err)
	}
	return cities, nil
}

// GetAvailableCategories lists the distinct attraction categories for filters.
func (s *PackagesServiceImpl) GetAvailableCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.GetAvailableCategories(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch available categories", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching available categories: %w", err)
	}
	return categories, nil
}
