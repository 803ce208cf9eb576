package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/tournament-recorder/docs" // swagger docs
	"github.com/Dosada05/tournament-recorder/handlers"
	"github.com/Dosada05/tournament-recorder/metrics"
	"github.com/Dosada05/tournament-recorder/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tunes the middleware stack. Zero values disable the optional parts.
type Options struct {
	Logger            *slog.Logger
	CORSAllowOrigins  []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// Metrics enables request instrumentation and GET /metrics when non-nil.
	Metrics *metrics.Metrics
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	healthHandler *handlers.HealthHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origins := opts.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if opts.RateLimitRequests > 0 && opts.RateLimitWindow > 0 {
		router.Use(middleware.RateLimit(opts.RateLimitRequests, opts.RateLimitWindow))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	router.Get("/health", healthHandler.Live)
	router.Get("/health/db", healthHandler.Database)
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	router.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayers)
		r.Post("/", playerHandler.UpsertPlayer)
		r.Put("/", playerHandler.UpsertPlayer)
		r.Delete("/{playerID}", playerHandler.DeletePlayer)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatches)
		r.Post("/", matchHandler.RecordMatch)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.LoadSnapshots)
		r.Post("/", tournamentHandler.SaveSnapshot)
	})

	router.Get("/ws/dates/{date}", webSocketHandler.ServeDate)
}
