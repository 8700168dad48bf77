package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"bankist/internal/auth"
	"bankist/internal/config"
	"bankist/internal/server"
	"bankist/internal/service"
	"bankist/internal/storage"
	"bankist/internal/storage/sqlite"
	"bankist/pkg/logging"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	// Initialize the account directory
	dir, err := sqlite.New(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("Failed to initialize directory", "error", err)
		os.Exit(1)
	}
	defer dir.Close()
	slog.Info("Directory initialized", "dsn", cfg.DatabaseDSN)

	// Seed the fixed demo accounts
	if err := storage.Seed(context.Background(), dir); err != nil {
		slog.Error("Failed to seed accounts", "error", err)
		os.Exit(1)
	}
	slog.Info("Demo accounts seeded")

	svc := service.NewLedgerService(dir, slog.Default())
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(svc, jwtManager).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
