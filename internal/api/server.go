package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kcsc-gpt/standards-api/internal/config"
	"github.com/kcsc-gpt/standards-api/internal/plancache"
	"github.com/kcsc-gpt/standards-api/internal/store"
	"github.com/kcsc-gpt/standards-api/internal/topic"
)

// Server is the HTTP binding for the chunk-serving core.
type Server struct {
	router chi.Router
	store  *store.Store
	topics *topic.Registry
	cache  *plancache.Cache
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(st *store.Store, topics *topic.Registry, cache *plancache.Cache, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:  st,
		topics: topics,
		cache:  cache,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/v1/search", s.handleSearch)
		r.Get("/api/v1/standard/{code}", s.handleStandardDetail)
		r.Get("/api/v1/stats", s.handleStats)

		r.Get("/api/v2/standard/{code}/chunked", s.handleChunked)
		r.Get("/api/v2/standard/{code}/stream", s.handleStream)
		r.Get("/api/v2/standard/{code}/sections", s.handleSections)
		r.Get("/api/v2/standard/{code}/topics/{topic}", s.handleTopic)
	})

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Standards Chunk API",
		"version": "2.0",
		"status":  "operational",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"documents_loaded":  s.store.Len(),
		"topics_registered": s.topics.Len(),
		"plans_cached":      s.cache.Len(),
	})
}
