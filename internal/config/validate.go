package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for problems that would make the service misbehave.
// It collects all errors into a single joined error.
//
// A missing OpenAI key or database password only produces a warning: the chat
// handler reports those per request as MISSING_API_KEY / MISSING_STORE_CONFIG.
func (c *Config) Validate() error {
	var errs []string

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	// Timeouts
	if c.Chat.RequestTimeout <= 0 {
		errs = append(errs, "CHAT_REQUEST_TIMEOUT must be positive")
	}
	if c.Chat.CompletionTimeout <= 0 {
		errs = append(errs, "CHAT_COMPLETION_TIMEOUT must be positive")
	} else if c.Chat.CompletionTimeout >= c.Chat.RequestTimeout {
		errs = append(errs, fmt.Sprintf("CHAT_COMPLETION_TIMEOUT (%s) must be shorter than CHAT_REQUEST_TIMEOUT (%s)",
			c.Chat.CompletionTimeout, c.Chat.RequestTimeout))
	}
	if c.Chat.ExtractionTimeout <= 0 {
		errs = append(errs, "CHAT_EXTRACTION_TIMEOUT must be positive")
	} else if c.Chat.ExtractionTimeout > c.Chat.RequestTimeout {
		errs = append(errs, fmt.Sprintf("CHAT_EXTRACTION_TIMEOUT (%s) must not exceed CHAT_REQUEST_TIMEOUT (%s)",
			c.Chat.ExtractionTimeout, c.Chat.RequestTimeout))
	}

	// Chat limits
	if c.Chat.MemoryLimit < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_MEMORY_LIMIT must be at least 1, got %d", c.Chat.MemoryLimit))
	}
	if c.Chat.MemoryCacheTTL < 0 {
		errs = append(errs, "CHAT_MEMORY_CACHE_TTL must not be negative")
	}
	switch c.Chat.ExtractionMode {
	case "local":
	case "nats":
		if c.NATS.URL == "" {
			errs = append(errs, "CHAT_EXTRACTION_MODE=nats requires NATS_URL")
		}
	default:
		errs = append(errs, fmt.Sprintf("CHAT_EXTRACTION_MODE must be local or nats, got %q", c.Chat.ExtractionMode))
	}
	if c.Chat.ExtractionWorkers < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_EXTRACTION_WORKERS must be at least 1, got %d", c.Chat.ExtractionWorkers))
	}

	// Auth secret: HS256 needs a reasonable key when enabled
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, "AUTH_JWT_SECRET must be at least 32 characters")
	}

	// Warn only
	if c.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is empty: chat requests will fail with MISSING_API_KEY")
	}
	if !c.DB.Configured() {
		slog.Warn("database is not fully configured: chat requests will fail with MISSING_STORE_CONFIG")
	}
	if c.Auth.JWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET is empty: chat requests are not authenticated")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
