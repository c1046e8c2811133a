package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/api"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/auth"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/chat"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/completion"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/config"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/continuity"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/database"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/intent"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/memory"
	mw "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/middleware"
	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/prompt"
	iredis "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/redis"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/server"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/turnlog"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/voice"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL (optional: without it every chat request gets MISSING_STORE_CONFIG)
	var (
		pool     *pgxpool.Pool
		contRepo continuity.Repository
		memRepo  memory.Repository
	)
	if cfg.DB.Configured() {
		pool, err = database.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			slog.Error("connecting to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.DB.MigrationsPath != "" {
			if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
				slog.Error("running migrations", "error", err)
				os.Exit(1)
			}
		}
		contRepo = continuity.NewPostgresRepository(pool)
		memRepo = memory.NewPostgresRepository(pool)
	}

	// Redis (optional: rate limiting and the memory cache are skipped without it)
	var redisClient *goredis.Client
	if rc, err := iredis.NewClient(ctx, cfg.Redis); err != nil {
		slog.Warn("redis unavailable, rate limiting and memory cache disabled", "error", err)
	} else {
		redisClient = rc
		defer redisClient.Close()
	}

	// NATS (optional unless extraction runs over the queue)
	var natsClient *inats.Client
	if cfg.NATS.URL != "" {
		natsClient, err = inats.NewClient(ctx, cfg.NATS)
		if err != nil {
			if cfg.Chat.ExtractionMode == "nats" {
				slog.Error("connecting to nats", "error", err)
				os.Exit(1)
			}
			slog.Warn("nats unavailable, turn events disabled", "error", err)
		}
	}

	// Stores
	continuityStore := continuity.NewStore(contRepo)
	var memCache *memory.Cache
	if redisClient != nil && cfg.Chat.MemoryCacheTTL > 0 {
		memCache = memory.NewCache(redisClient, cfg.Chat.MemoryCacheTTL)
	}
	memoryService := memory.NewService(memRepo, memCache, cfg.Chat.MemoryLimit)

	assembler := prompt.NewAssembler(voice.NewTable(), intent.NewDetector(), continuityStore, memoryService)
	completer := completion.NewClient(cfg.OpenAI)
	extractor := continuity.NewExtractor(completer, continuityStore, continuity.ExtractorConfig{
		Timeout:     cfg.Chat.ExtractionTimeout,
		Temperature: cfg.OpenAI.ExtractionTemperature,
		MaxTokens:   cfg.OpenAI.ExtractionMaxTokens,
	})

	deps := chat.Deps{Prompts: assembler, Completer: completer}
	var hooks []server.ShutdownHook

	// Background extraction
	switch {
	case cfg.Chat.ExtractionMode == "nats" && natsClient != nil:
		publisher := inats.NewPublisher(natsClient.JetStream())
		deps.Submitter = continuity.NewQueueSubmitter(publisher, cfg.Chat.ExtractionTimeout)

		consumer := continuity.NewQueueConsumer(extractor, inats.NewConsumerManager(natsClient.JetStream()))
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("continuity consumer stopped", "error", err)
			}
		}()
		slog.Info("continuity extraction via nats")
	default:
		workers := worker.NewPool(cfg.Chat.ExtractionWorkers, cfg.Chat.ExtractionQueue)
		deps.Submitter = continuity.NewLocalSubmitter(workers, extractor)
		hooks = append(hooks, workers.Shutdown)
		slog.Info("continuity extraction in-process",
			"workers", cfg.Chat.ExtractionWorkers, "queue", cfg.Chat.ExtractionQueue)
	}

	if natsClient != nil {
		deps.Events = inats.NewPublisher(natsClient.JetStream())
		if pool != nil {
			turnConsumer := turnlog.NewConsumer(turnlog.NewRepository(pool), inats.NewConsumerManager(natsClient.JetStream()))
			go func() {
				if err := turnConsumer.Start(ctx); err != nil {
					slog.Error("turn log consumer stopped", "error", err)
				}
			}()
		}
		hooks = append(hooks, func(context.Context) error {
			natsClient.Close()
			return nil
		})
	}
	if redisClient != nil {
		deps.Limiter = mw.NewRateLimiter(redisClient, cfg.Chat.RateLimitRequests, cfg.Chat.RateLimitWindowSec)
	}
	if cfg.Auth.JWTSecret != "" {
		deps.Verifier = auth.NewVerifier(cfg.Auth.JWTSecret)
	}

	chatHandler := chat.NewHandler(chat.Config{
		APIKeyConfigured:  cfg.OpenAI.APIKey != "",
		StoreConfigured:   pool != nil,
		RequestTimeout:    cfg.Chat.RequestTimeout,
		CompletionTimeout: cfg.Chat.CompletionTimeout,
		ReplyTemperature:  cfg.OpenAI.ReplyTemperature,
		ReplyMaxTokens:    cfg.OpenAI.ReplyMaxTokens,
		Production:        cfg.Production(),
	}, deps)

	// Router
	routerDeps := api.Dependencies{DB: pool, NATS: natsClient}
	if redisClient != nil {
		routerDeps.Redis = redisClient
	}
	router := api.NewRouter(routerDeps, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
	}, api.HandlerSet{
		Chat: chatHandler,
	})

	// Start server
	srv := server.New(cfg.Server, router, cfg.Chat.RequestTimeout)
	srv.OnShutdown(chatHandler.Drain, func(context.Context) error {
		cancel()
		return nil
	})
	srv.OnShutdown(hooks...)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
