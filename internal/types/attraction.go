package types

// Attraction is one row of the tourism_attractions catalog.
// OverallRating and Price are nullable in the source data; a missing
// rating means "no rating yet" and scores as 0.
type Attraction struct {
	PlaceID       int64    `json:"place_id"`
	PlaceName     string   `json:"place_name"`
	Category      string   `json:"category"`
	City          string   `json:"city"`
	Price         *float64 `json:"price,omitempty"`
	OverallRating *float64 `json:"overall_rating,omitempty"`
}

// Recommendation source tags. Callers rely on these to tell which
// resolver tier produced a result set.
const (
	SourceFunctionScore     = "db_function_score"
	SourceProcedure         = "db_procedure"
	SourceHeuristicFallback = "heuristic_fallback"
)

// ScoredAttraction is an attraction annotated with a recommendation
// score and the tier that produced it. Recommendation carries the raw
// payload when a stored routine returned something we could not parse
// into rows.
type ScoredAttraction struct {
	Attraction
	Score          float64 `json:"score"`
	Source         string  `json:"source"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// AttractionSummary is the slim shape used by rating pickers.
type AttractionSummary struct {
	PlaceID   int64  `json:"place_id"`
	PlaceName string `json:"place_name"`
	City      string `json:"city"`
	Category  string `json:"category"`
}
