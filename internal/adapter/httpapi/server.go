// Package httpapi exposes the trading backend over JSON REST for the
// mobile client. All /api routes require a bearer token; /health does
// not, so probes stay credential-free.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration
type Config struct {
	Port     int
	APIToken string
	DevMode  bool
	Log      zerolog.Logger
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// New creates a new HTTP server wired to the given handlers
func New(cfg Config, handlers *Handlers) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(handlers, cfg.APIToken)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the configured router (used by tests)
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes(h *Handlers, apiToken string) {
	s.router.Get("/health", h.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(apiToken))

		r.Route("/markets", func(r chi.Router) {
			r.Get("/", h.handleListMarkets)
			r.Get("/search", h.handleSearchMarkets)
			r.Get("/{id}", h.handleGetCoin)
		})

		r.Get("/account", h.handleGetAccount)
		r.Get("/portfolio", h.handleGetPortfolio)
		r.Post("/trades", h.handleExecuteTrade)
		r.Get("/transactions", h.handleListTransactions)
		r.Post("/reset", h.handleResetPortfolio)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.handleGetProfile)
			r.Post("/login", h.handleLogin)
			r.Post("/logout", h.handleLogout)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.handleGetSettings)
			r.Put("/", h.handleUpdateSettings)
			r.Post("/reset", h.handleResetSettings)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
