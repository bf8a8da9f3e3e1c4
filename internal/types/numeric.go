package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToFloat coerces heterogeneous source values (NUMERIC columns, JSON
// numbers, textual decimals, nil) into a float64. Every boundary where
// external data enters a scoring formula goes through here; a value
// that cannot be coerced yields def, never an error.
func ToFloat(v any, def float64) float64 {
	switch val := v.(type) {
	case nil:
		return def
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return def
		}
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case *float64:
		if val == nil {
			return def
		}
		return ToFloat(*val, def)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return def
		}
		return f
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return def
		}
		return f.Float64
	case string:
		return parseFloat(val, def)
	case []byte:
		return parseFloat(string(val), def)
	case bool:
		return def
	default:
		return parseFloat(fmt.Sprintf("%v", val), def)
	}
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// Round3 rounds to three decimal places, matching the precision every
// recommendation and ranking score is reported with.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
