package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrFloat(v float64) *float64 { return &v }

func TestPriceBucketFor(t *testing.T) {
	assert.Equal(t, PriceBucketUnknown, PriceBucketFor(nil))
	assert.Equal(t, PriceBucketLow, PriceBucketFor(ptrFloat(0)))
	assert.Equal(t, PriceBucketLow, PriceBucketFor(ptrFloat(49999.99)))
	// 50000 is the lower medium boundary, 150000 the upper (inclusive)
	assert.Equal(t, PriceBucketMedium, PriceBucketFor(ptrFloat(50000)))
	assert.Equal(t, PriceBucketMedium, PriceBucketFor(ptrFloat(149999.99)))
	assert.Equal(t, PriceBucketMedium, PriceBucketFor(ptrFloat(150000)))
	assert.Equal(t, PriceBucketHigh, PriceBucketFor(ptrFloat(150000.01)))
	assert.Equal(t, PriceBucketHigh, PriceBucketFor(ptrFloat(500000)))
}

func TestPreferenceVectorWeight(t *testing.T) {
	v := PreferenceVector{
		CategoryPreference: {"museum": 0.8},
		CityPreference:     {"Porto": 1.0},
	}

	assert.Equal(t, 0.8, v.Weight(CategoryPreference, "museum", 0.3))
	assert.Equal(t, 0.3, v.Weight(CategoryPreference, "park", 0.3))
	assert.Equal(t, 0.2, v.Weight(DurationPreference, "short", 0.2))

	var empty PreferenceVector
	assert.Equal(t, 0.3, empty.Weight(CategoryPreference, "museum", 0.3))
}

func TestPreferenceVectorCategoryWeights(t *testing.T) {
	t.Run("canonical type wins", func(t *testing.T) {
		v := PreferenceVector{
			CategoryPreference: {"museum": 0.8},
			"category":         {"museum": 0.1},
		}
		assert.Equal(t, map[string]float64{"museum": 0.8}, v.CategoryWeights())
	})

	t.Run("legacy type name accepted", func(t *testing.T) {
		v := PreferenceVector{"category": {"park": 0.6}}
		assert.Equal(t, map[string]float64{"park": 0.6}, v.CategoryWeights())
	})

	t.Run("nil vector", func(t *testing.T) {
		var v PreferenceVector
		assert.Nil(t, v.CategoryWeights())
	})
}
