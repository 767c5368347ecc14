// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/dailyfolder/internal/api"
	"github.com/starford/dailyfolder/internal/dailyservice"
	"github.com/starford/dailyfolder/internal/mcpserver"
	"github.com/starford/dailyfolder/internal/models"
	"github.com/starford/dailyfolder/internal/notify"
	"github.com/starford/dailyfolder/internal/settings"
	"github.com/starford/dailyfolder/internal/sse"
	"github.com/starford/dailyfolder/internal/storage"
	"github.com/starford/dailyfolder/internal/watch"
)

// Session is an opened vault with its settings database, for commands that
// run once and exit.
type Session struct {
	Service *dailyservice.Service
	Vault   string
	db      *settings.Store
}

// Close releases the settings database.
func (s *Session) Close() error {
	return s.db.Close()
}

// Open opens the vault and settings database described by the config.
// Notices go to the notifier set with WithNotifier.
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	app := newApplication(opts)
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	out := app.logOut
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(app.config, out)
	notifier := notify.Multi{notify.Log{Logger: logger}, app.notifier}
	return openSession(ctx, app.config, logger, notifier)
}

func openSession(ctx context.Context, cfg *Config, logger *slog.Logger, notifier notify.Notifier) (*Session, error) {
	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := settings.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init settings: %w", err)
	}

	svc, err := dailyservice.New(ctx, store, db, cfg.Daily.Settings,
		dailyservice.WithLogger(logger),
		dailyservice.WithNotifier(notifier),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init daily service: %w", err)
	}
	return &Session{Service: svc, Vault: store.Root(), db: db}, nil
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// Run starts the HTTP server and the vault watcher with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	out := app.logOut
	if out == nil {
		out = os.Stdout
	}
	logger := newLogger(cfg, out)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker doubles as the notifier for browser clients.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	session, err := openSession(ctx, cfg, logger, notify.Multi{broker, notify.Log{Logger: logger}, app.notifier})
	if err != nil {
		return err
	}
	defer session.Close()
	svc := session.Service

	active := svc.Settings(ctx)
	logger.Info("Daily settings",
		slog.String("format", active.Format),
		slog.String("root", active.Root),
		slog.String("template", active.TemplatePath),
		slog.String("today", svc.Resolver().Formatter().FormatNow(active.Format)))

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := session.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Report daily files appearing and disappearing to SSE clients.
	g.Go(func() error {
		w := watch.New(session.Vault, svc.Resolver(),
			func() models.Settings { return svc.Settings(gCtx) },
			logger, broker.PublishDailyEvent)
		if err := w.Run(gCtx); err != nil {
			logger.Warn("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Unblock the watcher.
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the daily-folder tools over stdio until the client
// disconnects. Logs go to stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	out := app.logOut
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(app.config, out)
	slog.SetDefault(logger)

	session, err := openSession(ctx, app.config, logger, notify.Multi{notify.Log{Logger: logger}, app.notifier})
	if err != nil {
		return err
	}
	defer session.Close()

	logger.Info("MCP server starting", slog.String("vault_path", session.Vault))
	if err := mcpserver.New(session.Service, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
