package types

// PackageFilter narrows a package search. Nil fields mean "no filter";
// price bounds are inclusive.
type PackageFilter struct {
	City     *string  `json:"city,omitempty"`
	Category *string  `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// PackageCandidate is a tourism package joined with its up to five
// constituent attractions. Itinerary preserves the original stop slot
// order; Categories is the distinct set of stop categories in
// first-seen order. Derived per request, never persisted.
type PackageCandidate struct {
	PackageID  int64    `json:"package_id"`
	City       string   `json:"city"`
	Itinerary  []string `json:"itinerary"`
	Categories []string `json:"categories"`
	TotalPrice *float64 `json:"total_price,omitempty"`
	AvgRating  *float64 `json:"avg_rating,omitempty"`
	Stops      int      `json:"stops"`
}

// RankedPackage is a candidate annotated with its composite ranking
// score and the price bucket that fed it.
type RankedPackage struct {
	PackageCandidate
	PriceBucket  string  `json:"price_bucket"`
	RankingScore float64 `json:"ranking_score"`
}

// Price bucket labels derived from total package price.
const (
	PriceBucketLow     = "low"
	PriceBucketMedium  = "medium"
	PriceBucketHigh    = "high"
	PriceBucketUnknown = "unknown"
)

// PriceBucketFor buckets a total price: below 50000 is low, up to and
// including 150000 is medium, above is high. A missing price is
// unknown.
func PriceBucketFor(totalPrice *float64) string {
	if totalPrice == nil {
		return PriceBucketUnknown
	}
	switch {
	case *totalPrice < 50000:
		return PriceBucketLow
	case *totalPrice <= 150000:
		return PriceBucketMedium
	default:
		return PriceBucketHigh
	}
}
