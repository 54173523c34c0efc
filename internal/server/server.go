package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/spendlog/spendlog-be/internal/auth"
	"github.com/spendlog/spendlog-be/internal/config"
	"github.com/spendlog/spendlog-be/internal/events"
	"github.com/spendlog/spendlog-be/internal/http/handlers"
	"github.com/spendlog/spendlog-be/internal/middleware"
	"github.com/spendlog/spendlog-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires middleware and routes and returns a ready server. Expense
// routes require a valid bearer token; auth and health routes are public.
func New(cfg config.Config, store storage.Store, publisher events.Publisher, logger *slog.Logger) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(store, tokens, logger).Register(r)

	r.Group(func(protected chi.Router) {
		protected.Use(func(next http.Handler) http.Handler {
			return middleware.Authenticate(tokens, next)
		})
		handlers.NewExpenseHandler(store, publisher, logger).Register(protected)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
