package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	shopchatroot "github.com/nkrv/shopchat"
	"github.com/nkrv/shopchat/internal/chat"
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/repository"
	"github.com/nkrv/shopchat/internal/server"
	"github.com/nkrv/shopchat/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(shopchatroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	products := repository.NewProductRepo(pool)
	cartRepo := repository.NewCartRepo(pool)
	users := repository.NewUserRepo(pool)

	// Initialize the dialogue engine
	sessions := chat.NewSessionStore(cfg.SessionTTL)
	carts := chat.NewCartExecutor(cartRepo, products)
	engine := chat.NewEngine(products, carts, sessions)

	auth := service.NewAuthService(users, cfg.JWTSecret)

	srv := server.New(server.Deps{
		Cfg:      cfg,
		Engine:   engine,
		Carts:    carts,
		Products: products,
		Users:    users,
		Auth:     auth,
	})

	// Start idle session cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					slog.Debug("swept idle sessions", "count", n)
				}
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting server", "addr", cfg.Addr())
		if err := srv.Start(); err != nil {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped gracefully")
}
