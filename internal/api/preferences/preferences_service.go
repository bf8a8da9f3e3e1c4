package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

// Ensure implementation satisfies the interface
var _ PreferencesService = (*PreferencesServiceImpl)(nil)

// PreferencesService builds per-session preference vectors and serves
// a user's rating history and profile.
type PreferencesService interface {
	BuildPreferenceVector(rows []types.PreferenceRow) types.PreferenceVector
	GetPreferenceVector(ctx context.Context, userID int64) (types.PreferenceVector, error)
	GetUserRatings(ctx context.Context, userID int64) ([]types.UserRating, error)
	GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error)
}

// PreferencesServiceImpl provides the implementation for PreferencesService.
type PreferencesServiceImpl struct {
	logger *slog.Logger
	repo   PreferencesRepo
}

// NewPreferencesService creates a new preferences service instance.
func NewPreferencesService(repo PreferencesRepo, logger *slog.Logger) *PreferencesServiceImpl {
	return &PreferencesServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// BuildPreferenceVector folds flat preference rows into a nested
// type -> key -> weight mapping. A row whose value cannot be coerced
// contributes weight 0 rather than failing the whole build; duplicate
// (type, key) rows keep the last value seen. Empty input yields an
// empty vector.
func (s *PreferencesServiceImpl) BuildPreferenceVector(rows []types.PreferenceRow) types.PreferenceVector {
	vector := types.PreferenceVector{}
	for _, row := range rows {
		if row.Type == "" || row.Key == "" {
			continue
		}
		weight := types.ToFloat(row.Value, math.NaN())
		if math.IsNaN(weight) {
			s.logger.Warn("Skipping uncoercible preference value",
				slog.String("type", row.Type),
				slog.String("key", row.Key),
				slog.Any("value", row.Value),
			)
			weight = 0
		}
		keys, ok := vector[row.Type]
		if !ok {
			keys = map[string]float64{}
			vector[row.Type] = keys
		}
		keys[row.Key] = weight
	}
	return vector
}

// GetPreferenceVector fetches a user's persisted preference rows and
// builds the session vector from them.
func (s *PreferencesServiceImpl) GetPreferenceVector(ctx context.Context, userID int64) (types.PreferenceVector, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "GetPreferenceVector", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetPreferenceVector"), slog.Int64("userID", userID))
	l.DebugContext(ctx, "Building preference vector")

	rows, err := s.repo.GetUserPreferenceRows(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch preference rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch preference rows")
		return nil, fmt.Errorf("error fetching preference rows: %w", err)
	}

	vector := s.BuildPreferenceVector(rows)
	l.DebugContext(ctx, "Preference vector built", slog.Int("types", len(vector)))
	span.SetStatus(codes.Ok, "Preference vector built")
	return vector, nil
}

// GetUserRatings retrieves a user's rating history joined with
// attraction attributes.
func (s *PreferencesServiceImpl) GetUserRatings(ctx context.Context, userID int64) ([]types.UserRating, error) {
	l := s.logger.With(slog.String("method", "GetUserRatings"), slog.Int64("userID", userID))
	l.DebugContext(ctx, "Fetching user ratings")

	ratings, err := s.repo.GetUserRatings(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user ratings", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user ratings: %w", err)
	}
	return ratings, nil
}

// GetUserProfile retrieves a user's profile, nil when it does not exist.
func (s *PreferencesServiceImpl) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	l := s.logger.With(slog.String("method", "GetUserProfile"), slog.Int64("userID", userID))
	l.DebugContext(ctx, "Fetching user profile")

	profile, err := s.repo.GetUserProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user profile: %w", err)
	}
	return profile, nil
}
