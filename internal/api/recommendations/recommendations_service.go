package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

// Default result caps per tier.
const (
	DefaultFunctionTierLimit = 15
	DefaultFallbackTierLimit = 10
)

// Neutral category affinity used when a user has neither explicit
// preferences nor any rating history.
const neutralCategoryAffinity = 0.3

// Ensure implementation satisfies the interface
var _ RecommendationsService = (*RecommendationsServiceImpl)(nil)

// RecommendationsService resolves a scored candidate list for a user.
type RecommendationsService interface {
	GetRecommendations(ctx context.Context, userID int64, vector types.PreferenceVector) ([]types.ScoredAttraction, error)
}

// RecommendationsServiceImpl provides the implementation for RecommendationsService.
type RecommendationsServiceImpl struct {
	logger        *slog.Logger
	repo          RecommendationsRepo
	functionLimit int
	fallbackLimit int
}

// NewRecommendationsService creates a new recommendations service
// instance. Non-positive limits fall back to the defaults.
func NewRecommendationsService(repo RecommendationsRepo, logger *slog.Logger, functionLimit, fallbackLimit int) *RecommendationsServiceImpl {
	if functionLimit <= 0 {
		functionLimit = DefaultFunctionTierLimit
	}
	if fallbackLimit <= 0 {
		fallbackLimit = DefaultFallbackTierLimit
	}
	return &RecommendationsServiceImpl{
		logger:        logger,
		repo:          repo,
		functionLimit: functionLimit,
		fallbackLimit: fallbackLimit,
	}
}

// GetRecommendations tries three candidate-producing tiers in priority
// order and returns the first non-empty result, source-tagged and
// ordered by descending score. A tier failing or coming back empty
// advances to the next one; tier results are never mixed. "No data"
// is an empty list, not an error.
func (s *RecommendationsServiceImpl) GetRecommendations(ctx context.Context, userID int64, vector types.PreferenceVector) ([]types.ScoredAttraction, error) {
	ctx, span := otel.Tracer("RecommendationsService").Start(ctx, "GetRecommendations", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetRecommendations"), slog.Int64("userID", userID))

	if recs := s.functionScoreTier(ctx, l, userID); len(recs) > 0 {
		span.SetAttributes(attribute.String("recommendation.source", types.SourceFunctionScore))
		span.SetStatus(codes.Ok, "Recommendations resolved by catalog function tier")
		return recs, nil
	}

	if recs := s.procedureTier(ctx, l, userID); len(recs) > 0 {
		span.SetAttributes(attribute.String("recommendation.source", types.SourceProcedure))
		span.SetStatus(codes.Ok, "Recommendations resolved by catalog procedure tier")
		return recs, nil
	}

	recs, err := s.fallbackTier(ctx, l, userID, vector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Heuristic fallback tier failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("recommendation.source", types.SourceHeuristicFallback))
	span.SetStatus(codes.Ok, "Recommendations resolved by heuristic fallback tier")
	return recs, nil
}

// functionScoreTier asks the catalog for externally computed per-item
// scores. Any failure means the tier is unavailable, never fatal.
func (s *RecommendationsServiceImpl) functionScoreTier(ctx context.Context, l *slog.Logger, userID int64) []types.ScoredAttraction {
	scored, err := s.repo.GetFunctionScores(ctx, userID, s.functionLimit)
	if err != nil {
		l.DebugContext(ctx, "Catalog function tier unavailable", slog.Any("error", err))
		return nil
	}
	for i := range scored {
		scored[i].Source = types.SourceFunctionScore
	}
	return scored
}

// procedureTier runs the stored recommendation routine. Rows are used
// as-is; an encoded payload is parsed, and a payload that cannot be
// parsed degrades to a single placeholder row carrying the raw text.
func (s *RecommendationsServiceImpl) procedureTier(ctx context.Context, l *slog.Logger, userID int64) []types.ScoredAttraction {
	set, err := s.repo.GetRecommendationSet(ctx, userID)
	if err != nil {
		l.DebugContext(ctx, "Catalog procedure tier unavailable", slog.Any("error", err))
		return nil
	}
	if set == nil {
		return nil
	}

	if len(set.Rows) > 0 {
		rows := set.Rows
		for i := range rows {
			if rows[i].Source == "" {
				rows[i].Source = types.SourceProcedure
			}
		}
		return rows
	}

	if set.Payload == "" {
		return nil
	}

	var parsed []map[string]any
	if err := json.Unmarshal([]byte(set.Payload), &parsed); err != nil {
		l.WarnContext(ctx, "Recommendation payload is not tabular, keeping raw payload",
			slog.Any("error", err))
		return []types.ScoredAttraction{{
			Source:         types.SourceProcedure,
			Recommendation: set.Payload,
		}}
	}
	if len(parsed) == 0 {
		return nil
	}

	scored := make([]types.ScoredAttraction, 0, len(parsed))
	for _, record := range parsed {
		sa := scoredFromRecord(record)
		if sa.Source == "" {
			sa.Source = types.SourceProcedure
		}
		scored = append(scored, sa)
	}
	return scored
}

// fallbackTier scores the full catalog with the category-affinity
// heuristic. It only returns empty when the catalog itself is empty;
// only a catalog connectivity failure surfaces as an error.
func (s *RecommendationsServiceImpl) fallbackTier(ctx context.Context, l *slog.Logger, userID int64, vector types.PreferenceVector) ([]types.ScoredAttraction, error) {
	attractions, err := s.repo.ListAttractions(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list attractions for fallback scoring", slog.Any("error", err))
		return nil, fmt.Errorf("error listing attractions: %w", err)
	}
	if len(attractions) == 0 {
		return []types.ScoredAttraction{}, nil
	}

	prefWeights := vector.CategoryWeights()

	historyWeights, hasHistory := s.normalizedCategoryMeans(ctx, l, userID)

	affinity := func(category string) float64 {
		if w, ok := prefWeights[category]; ok {
			return w
		}
		if hasHistory {
			// Categories the user never rated score 0 here.
			return historyWeights[category]
		}
		return neutralCategoryAffinity
	}

	scored := make([]types.ScoredAttraction, 0, len(attractions))
	for _, a := range attractions {
		scored = append(scored, types.ScoredAttraction{
			Attraction: a,
			Score:      types.Round3(types.ToFloat(a.OverallRating, 0)*0.6 + affinity(a.Category)*4),
			Source:     types.SourceHeuristicFallback,
		})
	}

	// Secondary key on overall rating keeps the order deterministic
	// when scores coincide.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return types.ToFloat(scored[i].OverallRating, 0) > types.ToFloat(scored[j].OverallRating, 0)
	})

	if len(scored) > s.fallbackLimit {
		scored = scored[:s.fallbackLimit]
	}
	return scored, nil
}

// normalizedCategoryMeans derives category affinities from rating
// history: each per-category mean divided by the maximum mean, so the
// best-loved category maps to 1.0. A user with exactly one rated
// category gets affinity 1.0 for it.
func (s *RecommendationsServiceImpl) normalizedCategoryMeans(ctx context.Context, l *slog.Logger, userID int64) (map[string]float64, bool) {
	means, err := s.repo.GetUserCategoryMeans(ctx, userID)
	if err != nil {
		l.WarnContext(ctx, "Failed to fetch category means, treating user as having no history",
			slog.Any("error", err))
		return nil, false
	}
	if len(means) == 0 {
		return nil, false
	}

	maxMean := 0.0
	for _, cm := range means {
		if cm.MeanRating > maxMean {
			maxMean = cm.MeanRating
		}
	}

	weights := make(map[string]float64, len(means))
	for _, cm := range means {
		if maxMean > 0 {
			weights[cm.Category] = cm.MeanRating / maxMean
		} else {
			weights[cm.Category] = 0
		}
	}
	return weights, true
}
