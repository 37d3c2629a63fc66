package config

import "time"

const (
	// Search result cap for the chat engine
	SearchResultLimit = 20

	// Catalog pagination default
	ProductsPerPage = 12

	// Upper bound for one converse cycle, catalog and cart calls included
	ConverseTimeout = 10 * time.Second

	// Idle session cleanup interval
	SessionSweepInterval = 60 * time.Second

	// Session store shard count
	SessionShards = 16

	// Auth token lifetime
	TokenLifetime = 24 * time.Hour

	// Telegram limits
	MaxTelegramMessageLen = 4096
)
