package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"relationmap/application/services"
	"relationmap/interfaces/http/rest/handlers"
	"relationmap/interfaces/http/rest/middleware"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/observability"
)

// Services are the application services the API exposes
type Services struct {
	Points      *services.PointService
	Connections *services.ConnectionService
	Notes       *services.NoteService
	Tags        *services.TagService
	News        *services.NewsService
}

// Options tunes the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	RequestTimeout time.Duration
	// RateLimit is requests per client IP per minute, zero for none
	RateLimit int
	Debug     bool
	Ready     func(ctx context.Context) error
}

// Router creates and configures the HTTP router
type Router struct {
	services Services
	opts     Options
	metrics  *observability.Collector
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	svc Services,
	opts Options,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *Router {
	return &Router{
		services: svc,
		opts:     opts,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errs := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.tracer.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))
	router.Use(chimiddleware.Recoverer)
	if rt.opts.RateLimit > 0 {
		router.Use(middleware.RateLimit(middleware.NewIPRateLimiter(rt.opts.RateLimit, time.Minute), errs))
	}
	if rt.opts.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(rt.opts.RequestTimeout))
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errs.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errs.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	health := handlers.NewHealthHandler(rt.opts.Ready, rt.logger)
	router.Get("/health", health.Health)
	router.Get("/ready", health.Ready)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Route("/points", func(r chi.Router) {
		h := handlers.NewPointHandler(rt.services.Points, errs, rt.logger)
		r.Get("/", h.ListPoints)
		r.Post("/", h.CreatePoint)
		r.Put("/{pointID}", h.UpdatePoint)
		r.Delete("/{pointID}", h.DeletePoint)
	})

	router.Route("/connections", func(r chi.Router) {
		h := handlers.NewConnectionHandler(rt.services.Connections, errs, rt.logger)
		r.Get("/", h.ListConnections)
		r.Post("/", h.CreateConnection)
		r.Delete("/{connectionID}", h.DeleteConnection)
	})

	router.Route("/notes", func(r chi.Router) {
		h := handlers.NewNoteHandler(rt.services.Notes, errs, rt.logger)
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Put("/{noteID}", h.UpdateNote)
		r.Delete("/{noteID}", h.DeleteNote)
	})

	router.Route("/tags", func(r chi.Router) {
		h := handlers.NewTagHandler(rt.services.Tags, errs, rt.logger)
		r.Get("/", h.ListTags)
		r.Post("/", h.CreateTag)
	})

	router.Route("/news", func(r chi.Router) {
		h := handlers.NewNewsHandler(rt.services.News, errs, rt.logger)
		r.Get("/", h.GetNews)
		r.Post("/seed", h.SeedPoint)
	})

	return router
}
