package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api/analytics"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/auth"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/packages"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/preferences"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/ratings"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/recommendations"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandler
	PreferencesHandler     *preferences.PreferencesHandler
	RecommendationsHandler *recommendations.RecommendationsHandler
	PackagesHandler        *packages.PackagesHandler
	RatingsHandler         *ratings.RatingsHandler
	AnalyticsHandler       *analytics.AnalyticsHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected
// to be applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// --- Public Auth Routes ---
		r.Group(func(r chi.Router) {
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
		})

		// --- Protected Routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Get("/recommendations", cfg.RecommendationsHandler.GetRecommendations)

			r.Get("/packages/search", cfg.PackagesHandler.SearchPackages)
			r.Get("/packages/filters", cfg.PackagesHandler.GetFilters)

			r.Get("/preferences/vector", cfg.PreferencesHandler.GetPreferenceVector)
			r.Get("/preferences/ratings", cfg.PreferencesHandler.GetUserRatings)
			r.Get("/preferences/profile", cfg.PreferencesHandler.GetUserProfile)

			r.Get("/attractions", cfg.RatingsHandler.ListAttractions)
			r.Post("/ratings", cfg.RatingsHandler.UpsertRating)
			r.Delete("/ratings/{placeID}", cfg.RatingsHandler.DeleteRating)

			r.Get("/analytics/overview", cfg.AnalyticsHandler.GetDashboardOverview)
			r.Get("/analytics/popular-places", cfg.AnalyticsHandler.GetPopularPlaces)
			r.Get("/analytics/ratings-timeline", cfg.AnalyticsHandler.GetRatingsTimeline)
			r.Get("/analytics/users", cfg.AnalyticsHandler.GetUsersOverview)
			r.Get("/analytics/recent-ratings", cfg.AnalyticsHandler.GetRecentRatings)

			// Admin account controls
			r.Get("/admin/credentials", cfg.AuthHandler.ListCredentials)
			r.Put("/admin/credentials/{userID}/block", cfg.AuthHandler.SetBlockStatus)
		})
	})

	return r
}
