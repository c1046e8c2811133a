package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Env    string
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	NATS   NATSConfig
	OpenAI OpenAIConfig
	Chat   ChatConfig
	Auth   AuthConfig
	CORS   CORSConfig
	Log    LogConfig
}

// Production reports whether the service runs with production semantics
// (no stack traces in error details).
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// Configured reports whether enough is known to reach the store.
func (c DBConfig) Configured() bool {
	return c.Host != "" && c.Name != "" && c.Password != ""
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NATSConfig is optional; an empty URL disables NATS.
type NATSConfig struct {
	URL string
}

type OpenAIConfig struct {
	APIKey                string
	BaseURL               string
	Model                 string
	ReplyMaxTokens        int
	ExtractionMaxTokens   int
	ReplyTemperature      float64
	ExtractionTemperature float64
}

type ChatConfig struct {
	RequestTimeout     time.Duration
	CompletionTimeout  time.Duration
	ExtractionTimeout  time.Duration
	MemoryLimit        int
	MemoryCacheTTL     time.Duration // 0 disables the Redis fact cache
	ExtractionMode     string        // "local" or "nats"
	ExtractionWorkers  int
	ExtractionQueue    int
	RateLimitRequests  int
	RateLimitWindowSec int
}

// AuthConfig holds the HS256 secret used to verify bearer tokens.
// An empty secret disables token checks.
type AuthConfig struct {
	JWTSecret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Env: k.String("app.env"),
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		OpenAI: OpenAIConfig{
			APIKey:                k.String("openai.api.key"),
			BaseURL:               k.String("openai.base.url"),
			Model:                 k.String("openai.model"),
			ReplyMaxTokens:        k.Int("openai.reply.max.tokens"),
			ExtractionMaxTokens:   k.Int("openai.extraction.max.tokens"),
			ReplyTemperature:      k.Float64("openai.reply.temperature"),
			ExtractionTemperature: k.Float64("openai.extraction.temperature"),
		},
		Chat: ChatConfig{
			MemoryLimit:        k.Int("chat.memory.limit"),
			ExtractionMode:     strings.ToLower(k.String("chat.extraction.mode")),
			ExtractionWorkers:  k.Int("chat.extraction.workers"),
			ExtractionQueue:    k.Int("chat.extraction.queue"),
			RateLimitRequests:  k.Int("chat.ratelimit.requests"),
			RateLimitWindowSec: k.Int("chat.ratelimit.window.sec"),
		},
		Auth: AuthConfig{
			JWTSecret: k.String("auth.jwt.secret"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	if origins := k.String("cors.allowed.origins"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, o)
			}
		}
	}

	// Apply defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "safespace"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "safespace"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 10
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1/"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.ReplyMaxTokens == 0 {
		cfg.OpenAI.ReplyMaxTokens = 350
	}
	if cfg.OpenAI.ExtractionMaxTokens == 0 {
		cfg.OpenAI.ExtractionMaxTokens = 400
	}
	if cfg.OpenAI.ReplyTemperature == 0 {
		cfg.OpenAI.ReplyTemperature = 0.7
	}
	if cfg.OpenAI.ExtractionTemperature == 0 {
		cfg.OpenAI.ExtractionTemperature = 0.3
	}
	if cfg.Chat.MemoryLimit == 0 {
		cfg.Chat.MemoryLimit = 15
	}
	if cfg.Chat.ExtractionMode == "" {
		cfg.Chat.ExtractionMode = "local"
	}
	if cfg.Chat.ExtractionWorkers == 0 {
		cfg.Chat.ExtractionWorkers = 4
	}
	if cfg.Chat.ExtractionQueue == 0 {
		cfg.Chat.ExtractionQueue = 128
	}
	if cfg.Chat.RateLimitRequests == 0 {
		cfg.Chat.RateLimitRequests = 30
	}
	if cfg.Chat.RateLimitWindowSec == 0 {
		cfg.Chat.RateLimitWindowSec = 60
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	cfg.Chat.RequestTimeout, err = parseDuration(k, "chat.request.timeout", "20s")
	if err != nil {
		return nil, err
	}
	cfg.Chat.CompletionTimeout, err = parseDuration(k, "chat.completion.timeout", "18s")
	if err != nil {
		return nil, err
	}
	cfg.Chat.ExtractionTimeout, err = parseDuration(k, "chat.extraction.timeout", "9s")
	if err != nil {
		return nil, err
	}
	cfg.Chat.MemoryCacheTTL, err = parseDuration(k, "chat.memory.cache.ttl", "60s")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(k *koanf.Koanf, key, fallback string) (time.Duration, error) {
	s := k.String(key)
	if s == "" {
		s = fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
