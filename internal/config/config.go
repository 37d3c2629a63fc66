package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	// Server
	Port int `env:"PORT" envDefault:"8080"`

	// Database pool sizing. Converse cycles only borrow a connection per
	// statement, so the defaults are deliberately modest.
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"2"`

	// Telegram front-end (only required by cmd/bot)
	BotToken string `env:"BOT_TOKEN"`

	// Conversational context expiry; 0 disables.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
