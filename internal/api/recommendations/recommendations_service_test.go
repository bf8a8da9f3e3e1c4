package recommendations

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

// MockRecommendationsRepo is a mock implementation of RecommendationsRepo
type MockRecommendationsRepo struct {
	mock.Mock
}

func (m *MockRecommendationsRepo) GetFunctionScores(ctx context.Context, userID int64, limit int) ([]types.ScoredAttraction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ScoredAttraction), args.Error(1)
}

func (m *MockRecommendationsRepo) GetRecommendationSet(ctx context.Context, userID int64) (*RecommendationSet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RecommendationSet), args.Error(1)
}

func (m *MockRecommendationsRepo) ListAttractions(ctx context.Context) ([]types.Attraction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Attraction), args.Error(1)
}

func (m *MockRecommendationsRepo) GetUserCategoryMeans(ctx context.Context, userID int64) ([]types.CategoryMeanRating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CategoryMeanRating), args.Error(1)
}

func setupRecommendationsServiceTest() (*RecommendationsServiceImpl, *MockRecommendationsRepo) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mockRepo := new(MockRecommendationsRepo)
	service := NewRecommendationsService(mockRepo, logger, 0, 0)
	return service, mockRepo
}

func ptrFloat(v float64) *float64 { return &v }

func attraction(id int64, name, category string, rating *float64) types.Attraction {
	return types.Attraction{
		PlaceID:       id,
		PlaceName:     name,
		Category:      category,
		City:          "Jakarta",
		OverallRating: rating,
	}
}

func TestRecommendationsServiceImpl_GetRecommendations_TierOrder(t *testing.T) {
	ctx := context.Background()
	userID := int64(1)

	t.Run("function tier wins when it has rows", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		scored := []types.ScoredAttraction{
			{Attraction: attraction(10, "Museum Nasional", "Budaya", ptrFloat(4.5)), Score: 8.1},
		}
		mockRepo.On("GetFunctionScores", mock.Anything, userID, DefaultFunctionTierLimit).Return(scored, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, types.SourceFunctionScore, recs[0].Source)
		mockRepo.AssertNotCalled(t, "GetRecommendationSet", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "ListAttractions", mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("function tier failure advances to procedure tier", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		mockRepo.On("GetFunctionScores", mock.Anything, userID, DefaultFunctionTierLimit).
			Return(nil, errors.New("function get_recommendation_score does not exist")).Once()
		mockRepo.On("GetRecommendationSet", mock.Anything, userID).Return(&RecommendationSet{
			Rows: []types.ScoredAttraction{
				{Attraction: attraction(20, "Kota Tua", "Sejarah", ptrFloat(4.2)), Score: 7.0},
			},
		}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, types.SourceProcedure, recs[0].Source)
		mockRepo.AssertNotCalled(t, "ListAttractions", mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty upper tiers fall through to heuristic", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		mockRepo.On("GetFunctionScores", mock.Anything, userID, DefaultFunctionTierLimit).
			Return([]types.ScoredAttraction{}, nil).Once()
		mockRepo.On("GetRecommendationSet", mock.Anything, userID).Return(&RecommendationSet{}, nil).Once()
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{
			attraction(30, "Taman Mini", "Taman Hiburan", ptrFloat(4.0)),
		}, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, types.SourceHeuristicFallback, recs[0].Source)
		mockRepo.AssertExpectations(t)
	})
}

func TestRecommendationsServiceImpl_ProcedureTierPayload(t *testing.T) {
	ctx := context.Background()
	userID := int64(2)

	t.Run("JSON payload parses into scored rows", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		payload := `[{"place_id": 5, "place_name": "Ancol", "category": "Bahari", "recommendation_score": 6.25}]`
		mockRepo.On("GetFunctionScores", mock.Anything, userID, DefaultFunctionTierLimit).
			Return(nil, errors.New("unavailable")).Once()
		mockRepo.On("GetRecommendationSet", mock.Anything, userID).
			Return(&RecommendationSet{Payload: payload}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, int64(5), recs[0].PlaceID)
		assert.Equal(t, "Ancol", recs[0].PlaceName)
		assert.Equal(t, 6.25, recs[0].Score)
		assert.Equal(t, types.SourceProcedure, recs[0].Source)
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed payload degrades to a single raw row", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		payload := `Recommended: Ancol, Kota Tua`
		mockRepo.On("GetFunctionScores", mock.Anything, userID, DefaultFunctionTierLimit).
			Return(nil, errors.New("unavailable")).Once()
		mockRepo.On("GetRecommendationSet", mock.Anything, userID).
			Return(&RecommendationSet{Payload: payload}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, payload, recs[0].Recommendation)
		assert.Equal(t, types.SourceProcedure, recs[0].Source)
		assert.Zero(t, recs[0].PlaceID)
		mockRepo.AssertNotCalled(t, "ListAttractions", mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

// expectUpperTiersEmpty wires the first two tiers to produce nothing so
// a test exercises only the heuristic fallback.
func expectUpperTiersEmpty(mockRepo *MockRecommendationsRepo, userID int64) {
	mockRepo.On("GetFunctionScores", mock.Anything, userID, DefaultFunctionTierLimit).
		Return(nil, errors.New("unavailable")).Once()
	mockRepo.On("GetRecommendationSet", mock.Anything, userID).
		Return(nil, errors.New("unavailable")).Once()
}

func TestRecommendationsServiceImpl_FallbackScoring(t *testing.T) {
	ctx := context.Background()
	userID := int64(3)

	t.Run("explicit category weights drive the score", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{
			attraction(1, "Museum Nasional", "Budaya", ptrFloat(4.0)),
			attraction(2, "Taman Suropati", "Taman", ptrFloat(5.0)),
		}, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{}, nil).Once()

		vector := types.PreferenceVector{
			types.CategoryPreference: {"Budaya": 0.2, "Taman": 1.0},
		}
		recs, err := service.GetRecommendations(ctx, userID, vector)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		// park: 5.0*0.6 + 1.0*4 = 7.0; museum: 4.0*0.6 + 0.2*4 = 3.2
		assert.Equal(t, int64(2), recs[0].PlaceID)
		assert.Equal(t, 7.0, recs[0].Score)
		assert.Equal(t, int64(1), recs[1].PlaceID)
		assert.Equal(t, 3.2, recs[1].Score)
		mockRepo.AssertExpectations(t)
	})

	t.Run("explicit weight beats rating history for the same category", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{
			attraction(1, "Museum Nasional", "Budaya", ptrFloat(4.0)),
		}, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{
			{Category: "Budaya", MeanRating: 5.0},
		}, nil).Once()

		vector := types.PreferenceVector{types.CategoryPreference: {"Budaya": 0.1}}
		recs, err := service.GetRecommendations(ctx, userID, vector)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		// 4.0*0.6 + 0.1*4 = 2.8, not the history-derived 1.0 affinity
		assert.Equal(t, 2.8, recs[0].Score)
		mockRepo.AssertExpectations(t)
	})

	t.Run("history normalizes per-category means by the maximum", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{
			attraction(1, "Kota Tua", "Sejarah", ptrFloat(4.0)),
			attraction(2, "Ancol", "Bahari", ptrFloat(4.0)),
			attraction(3, "Taman Suropati", "Taman", ptrFloat(4.0)),
		}, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{
			{Category: "Sejarah", MeanRating: 4.0},
			{Category: "Bahari", MeanRating: 2.0},
		}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 3)

		// Sejarah: 4*0.6 + 1.0*4 = 6.4; Bahari: 4*0.6 + 0.5*4 = 4.4;
		// Taman was never rated so its affinity is 0: 4*0.6 = 2.4.
		assert.Equal(t, int64(1), recs[0].PlaceID)
		assert.Equal(t, 6.4, recs[0].Score)
		assert.Equal(t, int64(2), recs[1].PlaceID)
		assert.Equal(t, 4.4, recs[1].Score)
		assert.Equal(t, int64(3), recs[2].PlaceID)
		assert.Equal(t, 2.4, recs[2].Score)
		mockRepo.AssertExpectations(t)
	})

	t.Run("single rated category normalizes to affinity 1.0", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{
			attraction(1, "Kota Tua", "Sejarah", ptrFloat(3.0)),
		}, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{
			{Category: "Sejarah", MeanRating: 1.5},
		}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		// 3.0*0.6 + 1.0*4 = 5.8
		assert.Equal(t, 5.8, recs[0].Score)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no preferences and no history means neutral affinity", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{
			attraction(1, "Museum Nasional", "Budaya", ptrFloat(4.0)),
			attraction(2, "Monas", "Sejarah", nil),
		}, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		// 4.0*0.6 + 0.3*4 = 3.6; missing rating scores 0 + 0.3*4 = 1.2
		assert.Equal(t, 3.6, recs[0].Score)
		assert.Equal(t, 1.2, recs[1].Score)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty catalog is an empty list, not an error", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		mockRepo.On("ListAttractions", mock.Anything).Return([]types.Attraction{}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		assert.Empty(t, recs)
		mockRepo.AssertNotCalled(t, "GetUserCategoryMeans", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("catalog failure surfaces as an error", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)
		repoErr := errors.New("connection refused")
		mockRepo.On("ListAttractions", mock.Anything).Return(nil, repoErr).Once()

		_, err := service.GetRecommendations(ctx, userID, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, repoErr))
		mockRepo.AssertExpectations(t)
	})

	t.Run("results cap at the fallback limit with deterministic ties", func(t *testing.T) {
		service, mockRepo := setupRecommendationsServiceTest()
		expectUpperTiersEmpty(mockRepo, userID)

		attractions := make([]types.Attraction, 0, 12)
		for i := int64(1); i <= 12; i++ {
			attractions = append(attractions, attraction(i, "Tempat", "Taman", ptrFloat(4.0)))
		}
		// one standout that must sort first
		attractions[5].OverallRating = ptrFloat(5.0)
		mockRepo.On("ListAttractions", mock.Anything).Return(attractions, nil).Once()
		mockRepo.On("GetUserCategoryMeans", mock.Anything, userID).Return([]types.CategoryMeanRating{}, nil).Once()

		recs, err := service.GetRecommendations(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, recs, DefaultFallbackTierLimit)
		assert.Equal(t, int64(6), recs[0].PlaceID)

		// equal scores keep catalog order
		assert.Equal(t, int64(1), recs[1].PlaceID)
		assert.Equal(t, int64(2), recs[2].PlaceID)
		mockRepo.AssertExpectations(t)
	})
}
