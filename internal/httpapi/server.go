// Package httpapi wires the HTTP surface of the ingestion service. It keeps
// handlers thin: authentication, rate limiting, and size capping happen in
// middleware, and every ingest handler does nothing but hand the request
// body to internal/ingest.Run for the matching record kind.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/batchwell/batchwell/internal/ingest"
)

func init() {
	// Correlation IDs are UUIDs rather than chi's default short counter so
	// they stay unique across process restarts and can be cross-referenced
	// against upstream pipeline run IDs in log aggregation.
	chimw.NextRequestID = func() string { return uuid.NewString() }
}

// DB is the narrow database surface the ingest handlers and /readyz need:
// bulk-insert execution (satisfying ingest.Execer) plus a liveness ping.
type DB interface {
	ingest.Execer
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using chi.
type Server struct {
	db      DB
	token   string
	limiter *rate.Limiter
	log     *slog.Logger

	maxBodyBytes         int64
	maxUncompressedBytes int64
	batchLimit           int

	rt *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
func New(db DB, token string, logger *slog.Logger, rateLimitPerSecond float64, rateLimitBurst int, maxBodyBytes, maxUncompressedBytes int64, batchLimit int) *Server {
	s := &Server{
		db:                   db,
		token:                token,
		limiter:              rate.NewLimiter(rate.Limit(rateLimitPerSecond), rateLimitBurst),
		log:                  logger,
		maxBodyBytes:         maxBodyBytes,
		maxUncompressedBytes: maxUncompressedBytes,
		batchLimit:           batchLimit,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.healthz)

	r.Group(func(gr chi.Router) {
		gr.Use(requireBearerToken(token))
		gr.Use(rateLimit(s.limiter))
		gr.Get("/readyz", s.readyz)
		gr.Handle("/metrics", metricsHandler())
		gr.With(limitRequestBody(maxBodyBytes)).Post("/ingest", s.handleIngest)
		gr.With(limitRequestBody(maxBodyBytes)).Post("/ingest-gottcha2", s.handleIngestGottcha2)
		gr.With(limitRequestBody(maxBodyBytes)).Post("/ingest-stast", s.handleIngestStast)
	})

	s.rt = r
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }
