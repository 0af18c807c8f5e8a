package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-travel-recommender/docs"
	"github.com/FACorreiaa/go-travel-recommender/internal/api/destination"
)

// Config contains dependencies needed for the router setup
type Config struct {
	DestinationHandler *destination.DestinationHandler
	AllowedOrigins     []string
	// RateLimitRequests per RateLimitWindow per client IP. Zero disables it.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// SetupRouter builds the API router. Server-wide middleware is applied by
// the caller before mounting it.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h := cfg.DestinationHandler
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Route("/destinations", func(r chi.Router) {
			r.Get("/", h.ListDestinations)
			r.Get("/stats", h.GetCatalogStats)
			r.Get("/{destinationID}", h.GetDestination)
			r.Get("/{destinationID}/similar", h.GetSimilarDestinations)
		})
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations", h.GetRecommendations)
			r.Get("/profile", h.GetUserProfile)
			r.Get("/history", h.GetUserHistory)
			r.Get("/history/stats", h.GetHistoryStats)
		})
		r.Get("/features", h.GetFeatureTable)
	})

	return r
}
