package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	t.Run("nil returns default", func(t *testing.T) {
		assert.Equal(t, 0.3, ToFloat(nil, 0.3))
	})

	t.Run("float64 passes through", func(t *testing.T) {
		assert.Equal(t, 4.5, ToFloat(4.5, 0))
	})

	t.Run("NaN and Inf return default", func(t *testing.T) {
		assert.Equal(t, 1.0, ToFloat(math.NaN(), 1.0))
		assert.Equal(t, 1.0, ToFloat(math.Inf(1), 1.0))
		assert.Equal(t, 1.0, ToFloat(math.Inf(-1), 1.0))
	})

	t.Run("integer widths", func(t *testing.T) {
		assert.Equal(t, 3.0, ToFloat(int(3), 0))
		assert.Equal(t, 3.0, ToFloat(int32(3), 0))
		assert.Equal(t, 3.0, ToFloat(int64(3), 0))
	})

	t.Run("float64 pointer", func(t *testing.T) {
		v := 2.25
		assert.Equal(t, 2.25, ToFloat(&v, 0))

		var missing *float64
		assert.Equal(t, 0.5, ToFloat(missing, 0.5))
	})

	t.Run("json.Number", func(t *testing.T) {
		assert.Equal(t, 7.125, ToFloat(json.Number("7.125"), 0))
		assert.Equal(t, 0.2, ToFloat(json.Number("not-a-number"), 0.2))
	})

	t.Run("pgtype.Numeric", func(t *testing.T) {
		var n pgtype.Numeric
		require.NoError(t, n.Scan("49999.99"))
		assert.Equal(t, 49999.99, ToFloat(n, 0))

		// invalid NUMERIC falls back to default
		assert.Equal(t, 0.3, ToFloat(pgtype.Numeric{}, 0.3))
	})

	t.Run("strings and bytes", func(t *testing.T) {
		assert.Equal(t, 0.8, ToFloat("0.8", 0))
		assert.Equal(t, 0.8, ToFloat(" 0.8 ", 0))
		assert.Equal(t, 0.8, ToFloat([]byte("0.8"), 0))
		assert.Equal(t, 0.1, ToFloat("high", 0.1))
		assert.Equal(t, 0.1, ToFloat("", 0.1))
	})

	t.Run("bool is not coercible", func(t *testing.T) {
		assert.Equal(t, 0.3, ToFloat(true, 0.3))
	})
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 3.2, Round3(4.0*0.6+0.2*4))
	assert.Equal(t, 0.333, Round3(1.0/3.0))
	assert.Equal(t, 0.667, Round3(2.0/3.0))
	assert.Equal(t, 1.0, Round3(0.9996))
	assert.Equal(t, 0.0, Round3(0))
}
