// Package server exposes the dashboard session over HTTP. Each route maps
// to one dashboard button and goes through the same reducer as the
// terminal UI.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/adtarget-cli/internal/config"
	"github.com/sells-group/adtarget-cli/internal/dashboard"
	"github.com/sells-group/adtarget-cli/internal/ingest"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

// multipartOverhead is the room left for multipart headers and boundaries
// on top of the upload size limit.
const multipartOverhead = 64 << 10

// Server routes HTTP requests to a dashboard session.
type Server struct {
	// ctx outlives individual requests so a run started by one request can
	// finish after it returns.
	ctx       context.Context
	session   *dashboard.Session
	cfg       config.ServerConfig
	maxUpload int64
	limiter   *rate.Limiter
	router    chi.Router
}

// New builds a server for sess. Runs started through the API are bounded by
// ctx rather than by the request that started them.
func New(ctx context.Context, sess *dashboard.Session, cfg config.ServerConfig, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = ingest.DefaultMaxBytes
	}
	s := &Server{
		ctx:       ctx,
		session:   sess,
		cfg:       cfg,
		maxUpload: maxUpload,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), max(cfg.RateLimitBurst, 1)),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/predictions", s.handleGetPredictions)
		for _, f := range predict.Formats {
			r.Get("/predictions/export."+f.Ext(), s.handleExport(f))
		}

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Put("/params", s.handlePutParams)
			r.Post("/upload", s.handleUpload)
			r.Post("/predictions", s.handleStartPrediction)
			r.Delete("/predictions", s.handleClear)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.AllowedOrigins
}
