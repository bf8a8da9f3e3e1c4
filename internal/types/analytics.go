package types

import "time"

// PopularPlace aggregates rating volume per attraction.
type PopularPlace struct {
	PlaceName     string   `json:"place_name"`
	City          string   `json:"city"`
	RatingCount   int64    `json:"rating_count"`
	AvgUserRating *float64 `json:"avg_user_rating,omitempty"`
	OverallRating *float64 `json:"overall_rating,omitempty"`
}

// CityDemand counts attractions and average catalog quality per city.
type CityDemand struct {
	City        string   `json:"city"`
	Attractions int64    `json:"attractions"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
}

// CategorySatisfaction aggregates catalog quality per category.
type CategorySatisfaction struct {
	Category  string   `json:"category"`
	Count     int64    `json:"count"`
	AvgRating *float64 `json:"avg_rating,omitempty"`
}

// PriceSegment groups attractions into the same price bands the
// package ranker buckets with.
type PriceSegment struct {
	Segment     string   `json:"price_segment"`
	Attractions int64    `json:"attractions"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	AvgPrice    *float64 `json:"avg_price,omitempty"`
}

// RatingsTimelinePoint is one day of rating activity, oldest first.
type RatingsTimelinePoint struct {
	RatedDate   time.Time `json:"rated_date"`
	AvgRating   float64   `json:"avg_rating"`
	RatingCount int64     `json:"rating_count"`
}

// EntityCounts is the dashboard headline card.
type EntityCounts struct {
	Users       int64 `json:"users_count"`
	Attractions int64 `json:"attractions_count"`
	Packages    int64 `json:"packages_count"`
	Ratings     int64 `json:"ratings_count"`
}

// UserOverview summarises a user's rating activity.
type UserOverview struct {
	UserID        int64    `json:"user_id"`
	Location      *string  `json:"location,omitempty"`
	Age           *int     `json:"age,omitempty"`
	RatingCount   int64    `json:"rating_count"`
	AvgUserRating *float64 `json:"avg_user_rating,omitempty"`
}

// RecentRating is a rating joined with user and place context.
type RecentRating struct {
	UserID    int64     `json:"user_id"`
	Location  *string   `json:"location,omitempty"`
	PlaceID   int64     `json:"place_id"`
	PlaceName *string   `json:"place_name,omitempty"`
	City      *string   `json:"city,omitempty"`
	Rating    float64   `json:"rating"`
	RatedAt   time.Time `json:"rated_at"`
}

// PackageCoverage counts packages and filled stop slots per city.
type PackageCoverage struct {
	City         string `json:"city"`
	PackageCount int64  `json:"package_count"`
	TotalStops   int64  `json:"total_stops"`
}
