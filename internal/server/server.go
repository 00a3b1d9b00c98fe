// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer - it connects handlers, middleware,
// and routes. It is the composition root: every dependency chain
// (DB → repository → service → handler) is assembled in New/setupRoutes,
// rather than scattered across the codebase.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it testable (tests create
// a server without running main and drive it through httptest) and keeps
// main.go minimal.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/makerburg/makerburg/internal/auth"
	"github.com/makerburg/makerburg/internal/handler"
	"github.com/makerburg/makerburg/internal/middleware"
	sqliteRepo "github.com/makerburg/makerburg/internal/repository/sqlite"
	"github.com/makerburg/makerburg/internal/service"
)

// Config holds what the server needs to start. It mirrors the fields of
// config.Config that matter here; main.go copies them over so this package
// does not depend on how configuration is loaded.
type Config struct {
	Port          int
	DBPath        string
	SessionSecret string
	SessionTTL    time.Duration
	BcryptCost    int
	Seed          bool
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and wires the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services. Nothing below the repository layer
// ever sees HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Seed {
		seeded, err := db.Seed(context.Background())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding catalog: %w", err)
		}
		if seeded {
			logger.Info("catalog seeded with sample content")
		}
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register      → create account + session
//	POST   /api/auth/login         → verify credentials + session
//	POST   /api/auth/logout        → clear session cookie
//	GET    /api/auth/me            → current account            [auth]
//	GET    /api/stories            → list published stories
//	GET    /api/stories/{id}       → single story
//	GET    /api/opportunities      → list published opportunities
//	GET    /api/opportunities/{id} → single opportunity
//	GET    /api/videos             → list published videos
//	GET    /api/videos/{id}        → single video
//	GET    /api/culture            → list published culture entries
//	GET    /api/culture/{id}       → single culture entry
//	GET    /api/saved              → list bookmarks              [auth]
//	POST   /api/saved              → add bookmark                [auth]
//	DELETE /api/saved/{kind}/{id}  → remove bookmark             [auth]
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP run first so the logger
// and recoverer see the enriched request.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SessionSecret, s.config.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(s.db, passwords, s.logger)
	contentService := service.NewContentService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens, s.logger)
	contentHandler := handler.NewContentHandler(contentService, s.logger)
	savedHandler := handler.NewSavedHandler(s.db, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/me", authHandler.HandleMe)
			})
		})

		// Catalog routes are public; anonymous browsing must always work.
		r.Get("/stories", contentHandler.HandleListStories)
		r.Get("/stories/{id}", contentHandler.HandleGetStory)
		r.Get("/opportunities", contentHandler.HandleListOpportunities)
		r.Get("/opportunities/{id}", contentHandler.HandleGetOpportunity)
		r.Get("/videos", contentHandler.HandleListVideos)
		r.Get("/videos/{id}", contentHandler.HandleGetVideo)
		r.Get("/culture", contentHandler.HandleListCultureEntries)
		r.Get("/culture/{id}", contentHandler.HandleGetCultureEntry)

		r.Route("/saved", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/", savedHandler.HandleList)
			r.Post("/", savedHandler.HandleAdd)
			r.Delete("/{kind}/{id}", savedHandler.HandleRemove)
		})
	})

	return nil
}

// Handler exposes the router for tests driving the server through
// httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Tests use this;
// Start handles it for the normal path.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server and handles graceful shutdown.
//
// SHUTDOWN ORDER:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
