package types

import "time"

// Rating is a user's personal score for a place. One rating per
// (user, place); the data layer upserts.
type Rating struct {
	UserID  int64     `json:"user_id"`
	PlaceID int64     `json:"place_id"`
	Rating  float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// UserRating is a rating joined with the rated attraction's catalog
// attributes, as served on the preferences/history page.
type UserRating struct {
	PlaceID       int64     `json:"place_id"`
	PlaceName     string    `json:"place_name"`
	Category      string    `json:"category"`
	City          string    `json:"city"`
	Price         *float64  `json:"price,omitempty"`
	OverallRating *float64  `json:"overall_rating,omitempty"`
	Rating        float64   `json:"rating"`
	RatedAt       time.Time `json:"rated_at"`
}

// CategoryMeanRating is a user's average rating within one category,
// used to derive category affinity when no explicit preference exists.
type CategoryMeanRating struct {
	Category   string  `json:"category"`
	MeanRating float64 `json:"mean_rating"`
}

// UserProfile is the demographic row shown on the dashboard header.
type UserProfile struct {
	UserID   int64   `json:"user_id"`
	Location *string `json:"location,omitempty"`
	Age      *int    `json:"age,omitempty"`
}
