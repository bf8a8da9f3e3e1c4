package preferences

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourism-recommender/internal/types"
)

// MockPreferencesRepo is a mock implementation of PreferencesRepo
type MockPreferencesRepo struct {
	mock.Mock
}

func (m *MockPreferencesRepo) GetUserPreferenceRows(ctx context.Context, userID int64) ([]types.PreferenceRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PreferenceRow), args.Error(1)
}

func (m *MockPreferencesRepo) GetUserRatings(ctx context.Context, userID int64) ([]types.UserRating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserRating), args.Error(1)
}

func (m *MockPreferencesRepo) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func setupPreferencesServiceTest() (*PreferencesServiceImpl, *MockPreferencesRepo) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mockRepo := new(MockPreferencesRepo)
	service := NewPreferencesService(mockRepo, logger)
	return service, mockRepo
}

func TestPreferencesServiceImpl_BuildPreferenceVector(t *testing.T) {
	service, _ := setupPreferencesServiceTest()

	t.Run("empty input yields empty vector", func(t *testing.T) {
		vector := service.BuildPreferenceVector(nil)
		require.NotNil(t, vector)
		assert.Empty(t, vector)

		vector = service.BuildPreferenceVector([]types.PreferenceRow{})
		assert.Empty(t, vector)
	})

	t.Run("groups rows by type and key", func(t *testing.T) {
		rows := []types.PreferenceRow{
			{Type: types.CategoryPreference, Key: "museum", Value: 0.8},
			{Type: types.CategoryPreference, Key: "park", Value: "0.4"},
			{Type: types.CityPreference, Key: "Porto", Value: 1},
		}
		vector := service.BuildPreferenceVector(rows)
		assert.Equal(t, types.PreferenceVector{
			types.CategoryPreference: {"museum": 0.8, "park": 0.4},
			types.CityPreference:     {"Porto": 1.0},
		}, vector)
	})

	t.Run("duplicate type and key keeps last value", func(t *testing.T) {
		rows := []types.PreferenceRow{
			{Type: types.CategoryPreference, Key: "museum", Value: 0.2},
			{Type: types.CategoryPreference, Key: "museum", Value: 0.9},
		}
		vector := service.BuildPreferenceVector(rows)
		assert.Equal(t, 0.9, vector[types.CategoryPreference]["museum"])
	})

	t.Run("uncoercible value contributes zero weight", func(t *testing.T) {
		rows := []types.PreferenceRow{
			{Type: types.PricePreference, Key: "low", Value: "cheap"},
			{Type: types.PricePreference, Key: "medium", Value: 0.5},
		}
		vector := service.BuildPreferenceVector(rows)
		assert.Equal(t, 0.0, vector[types.PricePreference]["low"])
		assert.Equal(t, 0.5, vector[types.PricePreference]["medium"])
	})

	t.Run("rows missing type or key are skipped", func(t *testing.T) {
		rows := []types.PreferenceRow{
			{Type: "", Key: "museum", Value: 0.8},
			{Type: types.CategoryPreference, Key: "", Value: 0.8},
		}
		vector := service.BuildPreferenceVector(rows)
		assert.Empty(t, vector)
	})
}

func TestPreferencesServiceImpl_GetPreferenceVector(t *testing.T) {
	service, mockRepo := setupPreferencesServiceTest()
	ctx := context.Background()
	userID := int64(42)

	t.Run("success", func(t *testing.T) {
		rows := []types.PreferenceRow{
			{Type: types.CategoryPreference, Key: "museum", Value: 0.8},
		}
		mockRepo.On("GetUserPreferenceRows", mock.Anything, userID).Return(rows, nil).Once()

		vector, err := service.GetPreferenceVector(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0.8, vector.Weight(types.CategoryPreference, "museum", 0))
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repoErr := errors.New("connection refused")
		mockRepo.On("GetUserPreferenceRows", mock.Anything, userID).Return(nil, repoErr).Once()

		_, err := service.GetPreferenceVector(ctx, userID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, repoErr))
		mockRepo.AssertExpectations(t)
	})
}

func TestPreferencesServiceImpl_GetUserProfile(t *testing.T) {
	service, mockRepo := setupPreferencesServiceTest()
	ctx := context.Background()
	userID := int64(7)

	t.Run("profile missing is nil, not an error", func(t *testing.T) {
		mockRepo.On("GetUserProfile", mock.Anything, userID).Return(nil, nil).Once()

		profile, err := service.GetUserProfile(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, profile)
		mockRepo.AssertExpectations(t)
	})
}
