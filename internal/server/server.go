package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/replog/internal/stats"
	"github.com/meltforce/replog/internal/storage"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	engine *stats.Engine
	log    *slog.Logger
	apiKey string
	lc     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, engine *stats.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		engine: engine,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches identity resolution from the dev fallback to
// Tailscale WhoIs lookups on the attached local client.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Get("/api/v1/health", s.handleHealth)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/stats", s.handleStats)

	s.router.Route("/api/v1/logs", func(r chi.Router) {
		r.Get("/", s.handleListLogs)
		r.Post("/", s.handleCreateLog)
		r.Patch("/{id}", s.handleUpdateLog)
		r.Delete("/{id}", s.handleDeleteLog)
	})

	s.router.Route("/api/v1/exercises", func(r chi.Router) {
		r.Get("/", s.handleListExercises)
		r.Post("/", s.handleCreateExercise)
		r.Delete("/{id}", s.handleDeleteExercise)
	})

	// Bulk import endpoint (API key required)
	s.router.With(APIKeyAuth(s.apiKey)).Post("/api/v1/import", s.handleImport)
	s.router.Get("/api/v1/import/logs", s.handleImportLogs)
}
