// Package redis connects the optional cache/rate-limit store.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/config"
)

// connectTimeout bounds the startup ping; Redis is optional, so a slow or
// missing server must not hold up boot.
const connectTimeout = 3 * time.Second

// NewClient connects and pings. On failure the client is closed and the
// caller runs without rate limiting and the memory fact cache.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s (db %d): %w", cfg.Addr(), cfg.DB, err)
	}

	slog.Info("redis connected", "addr", cfg.Addr(), "db", cfg.DB)
	return client, nil
}
