// ABOUTME: Viewer router configuration and setup
// ABOUTME: Wires CORS, request logging, and rate limiting around the article viewer

package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"news-harvester-api/api/handlers"
	"news-harvester-api/api/middleware"
	"news-harvester-api/core/interfaces"
)

// Config holds configuration for the viewer API
type Config struct {
	Logger     interfaces.Logger
	Store      interfaces.ArticleStore
	RateLimit  int           // requests per window, 0 disables limiting
	RateWindow time.Duration // rate limit window
}

// NewRouter creates the viewer router with middleware configured
func NewRouter(cfg Config) chi.Router {
	router := chi.NewRouter()

	// CORS should be the first middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	articlesHandler := handlers.NewArticlesHandler(cfg.Store, cfg.Logger)
	articlesHandler.RegisterRoutes(router)

	return router
}
