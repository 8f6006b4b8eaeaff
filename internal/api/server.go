package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notexlabs/notex/internal/config"
	"github.com/notexlabs/notex/internal/extract"
	"github.com/notexlabs/notex/internal/inference"
	"github.com/notexlabs/notex/internal/session"
	"github.com/notexlabs/notex/internal/summarize"
)

// Server is the HTTP API server for notex.
type Server struct {
	router chi.Router

	sessions    *session.Store
	summarizer  summarize.Summarizer
	qa          summarize.QuestionAnswerer
	transcripts *extract.TranscriptClient
	articles    *extract.ArticleClient
	stats       *inference.Stats

	log *slog.Logger
	cfg config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil when
// no latency tracking is available.
func NewServer(
	sessions *session.Store,
	summarizer summarize.Summarizer,
	qa summarize.QuestionAnswerer,
	transcripts *extract.TranscriptClient,
	articles *extract.ArticleClient,
	stats *inference.Stats,
	log *slog.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		sessions:    sessions,
		summarizer:  summarizer,
		qa:          qa,
		transcripts: transcripts,
		articles:    articles,
		stats:       stats,
		log:         log,
		cfg:         cfg,
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
	r.Get("/health", s.handleHealth)

	// API endpoints; bearer auth only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.NotexAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.NotexAPIKey, s.log))
		}

		r.Post("/api/sessions", s.handleCreateSession)
		r.Get("/api/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/api/sessions/{sessionID}", s.handleDeleteSession)
		r.Post("/api/sessions/{sessionID}/extract", s.handleExtract)
		r.Post("/api/sessions/{sessionID}/summarize", s.handleSummarize)
		r.Post("/api/sessions/{sessionID}/answer", s.handleAnswer)

		r.Get("/api/stats/inference", s.handleInferenceStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
