package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/todmy/report-checker/internal/auth"
	"github.com/todmy/report-checker/internal/cache"
	"github.com/todmy/report-checker/internal/contradiction"
	"github.com/todmy/report-checker/internal/logger"
	"github.com/todmy/report-checker/internal/storage"
)

// anonymousClient owns stored reports when authentication is disabled
const anonymousClient = "anonymous"

// Config wires the server's dependencies. Reports and Findings are optional;
// without them the report endpoints answer 503. A nil Auth disables
// authentication.
type Config struct {
	Engine         *contradiction.Engine
	Analyzer       cache.Analyzer
	Reports        storage.ReportRepository
	Findings       storage.FindingRepository
	Auth           auth.Service
	Logger         *logger.Logger
	AllowedOrigins []string
}

type Server struct {
	router   *chi.Mux
	engine   *contradiction.Engine
	analyzer cache.Analyzer
	reports  storage.ReportRepository
	findings storage.FindingRepository
	auth     auth.Service
	logger   *logger.Logger
}

func NewServer(cfg Config) *Server {
	if cfg.Engine == nil {
		cfg.Engine = contradiction.New()
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = cfg.Engine
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:*", "https://*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		engine:   cfg.Engine,
		analyzer: cfg.Analyzer,
		reports:  cfg.Reports,
		findings: cfg.Findings,
		auth:     cfg.Auth,
		logger:   cfg.Logger,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		if s.auth != nil {
			r.Post("/auth/token", auth.NewHandlers(s.auth).Token)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			if s.auth != nil {
				r.Use(auth.Middleware(s.auth))
				r.Get("/auth/me", auth.NewHandlers(s.auth).Me)
			}

			r.Post("/analyze", s.handleAnalyze)
			r.Get("/patterns", s.handleListPatterns)

			r.Route("/reports", func(r chi.Router) {
				r.Use(s.requireStorage)

				r.Get("/", s.handleListReports)
				r.Post("/", s.handleCreateReport)
				r.Post("/upload", s.handleUpload)
				r.Get("/{reportID}", s.handleGetReport)
				r.Get("/{reportID}/findings", s.handleGetFindings)
				r.Delete("/{reportID}", s.handleDeleteReport)
			})
		})
	})
}

// ServeHTTP makes the server usable as an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// requireStorage rejects report endpoints when no database is configured
func (s *Server) requireStorage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.reports == nil || s.findings == nil {
			respondError(w, http.StatusServiceUnavailable, "report storage is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID returns the authenticated client, or the anonymous client when
// authentication is disabled.
func (s *Server) clientID(r *http.Request) string {
	if claims, ok := auth.GetClientFromContext(r.Context()); ok {
		return claims.ClientID
	}
	return anonymousClient
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
