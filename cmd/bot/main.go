package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	shopchatroot "github.com/nkrv/shopchat"
	botfront "github.com/nkrv/shopchat/internal/bot"
	"github.com/nkrv/shopchat/internal/chat"
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/repository"
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
	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN is required for the telegram front-end")
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

	// Initialize the dialogue engine
	products := repository.NewProductRepo(pool)
	cartRepo := repository.NewCartRepo(pool)
	sessions := chat.NewSessionStore(cfg.SessionTTL)
	carts := chat.NewCartExecutor(cartRepo, products)
	engine := chat.NewEngine(products, carts, sessions)

	h := botfront.New(engine)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			botfront.Recover(),
			botfront.Logging(),
		),
		bot.WithDefaultHandler(h.HandleText),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.HandleStart)

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

	// Start bot
	slog.Info("starting bot")
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
