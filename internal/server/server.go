// Package server wires the store, services, handlers and middleware into one
// HTTP server.
//
// This is the composition root: main builds a Config and an open store, and
// everything else is assembled in New/setupRoutes.
//
// DEPENDENCY FLOW:
//
//	sqlstore.DB → EntryService / CategoryService / TagService → handlers → routes
//
// Services receive repository interfaces, handlers receive services, and the
// store never sees an http.Request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/dokodemo-door/internal/auth"
	"github.com/sakif/dokodemo-door/internal/handler"
	"github.com/sakif/dokodemo-door/internal/middleware"
	"github.com/sakif/dokodemo-door/internal/repository/sqlstore"
	"github.com/sakif/dokodemo-door/internal/service"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Config holds the settings the HTTP layer needs.
type Config struct {
	BindAddr string
	// APIKey guards every route except /health and the Telegram webhook.
	// Empty disables the check.
	APIKey string
	// TelegramWebhookSecret is compared with X-Telegram-Bot-Api-Secret-Token.
	// Empty disables the check.
	TelegramWebhookSecret string
}

// Server owns the store it was given: Start closes it on the way out.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqlstore.DB
}

// New builds the router over an already opened and migrated store.
func New(cfg Config, db *sqlstore.DB, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	GET    /health                         public
//	POST   /integrations/telegram/update   Telegram secret
//	GET    /entries  POST /entries         API key
//	GET    /entries/{id}  PATCH  DELETE    API key
//	POST   /quick-capture                  API key
//	GET    /categories  POST /categories   API key
//	PATCH  /categories/{id}  DELETE        API key
//	GET    /tags  POST /tags               API key
//	DELETE /tags/{id}                      API key
//
// Middleware order: RequestID before Logger so the log line carries the id,
// Recoverer inside Logger so a panic is logged as a 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	entryService := service.NewEntryService(s.db, s.db, s.logger)
	captureService := service.NewCaptureService(entryService, s.logger)

	healthHandler := handler.NewHealthHandler(s.db, s.db.Backend().String(), s.logger)
	entryHandler := handler.NewEntryHandler(entryService, s.logger)
	captureHandler := handler.NewCaptureHandler(captureService, s.logger)
	categoryHandler := handler.NewCategoryHandler(service.NewCategoryService(s.db, s.logger), s.logger)
	tagHandler := handler.NewTagHandler(service.NewTagService(s.db, s.logger), s.logger)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.With(auth.RequireTelegramSecret(s.config.TelegramWebhookSecret)).
		Post("/integrations/telegram/update", captureHandler.HandleTelegramUpdate)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAPIKey(s.config.APIKey))

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", entryHandler.HandleList)
			r.Post("/", entryHandler.HandleCreate)
			r.Get("/{id}", entryHandler.HandleGet)
			r.Patch("/{id}", entryHandler.HandleUpdate)
			r.Delete("/{id}", entryHandler.HandleDelete)
		})

		r.Post("/quick-capture", captureHandler.HandleQuickCapture)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.HandleList)
			r.Post("/", categoryHandler.HandleCreate)
			r.Patch("/{id}", categoryHandler.HandleUpdate)
			r.Delete("/{id}", categoryHandler.HandleDelete)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagHandler.HandleList)
			r.Post("/", tagHandler.HandleCreate)
			r.Delete("/{id}", tagHandler.HandleDelete)
		})
	})

	if s.config.APIKey == "" {
		s.logger.Warn("APP_API_KEY not set, API routes are unauthenticated")
	}
	if s.config.TelegramWebhookSecret == "" {
		s.logger.Warn("TELEGRAM_WEBHOOK_SECRET not set, the Telegram webhook is unauthenticated")
	}
}

// Start serves until SIGINT/SIGTERM or ctx is cancelled, then shuts down
// gracefully and closes the store.
func (s *Server) Start(ctx context.Context) error {
	defer func() {
		if err := s.db.Close(); err != nil {
			s.logger.Error("closing database", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.config.BindAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.BindAddr),
			slog.String("database", s.db.Backend().String()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
