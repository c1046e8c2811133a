package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/database"
	mw "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/middleware"
	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
)

// ChatPath is where the mobile client posts chat turns.
const ChatPath = "/functions/v1/generate-ai-response"

// HandlerSet holds handlers injected from main.go to avoid import cycles.
type HandlerSet struct {
	Chat http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
}

// Dependencies are probed by /health/ready. Any of them may be nil.
type Dependencies struct {
	DB    *pgxpool.Pool
	Redis redis.UniversalClient
	NATS  *inats.Client
}

func NewRouter(deps Dependencies, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe: always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	readiness := readinessHandler(deps)
	r.Get("/health/ready", readiness)
	r.Get("/health", readiness)

	r.Handle("/metrics", promhttp.Handler())

	// Every method reaches the chat handler so that it can answer
	// METHOD_NOT_ALLOWED inside the envelope.
	r.Handle(ChatPath, h.Chat)

	return r
}

func readinessHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
			"nats":     "healthy",
		}
		status := http.StatusOK
		degrade := func(component, state string) {
			health[component] = state
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		ctx := r.Context()
		if deps.DB == nil {
			health["database"] = "not configured"
		} else if err := database.HealthCheck(ctx, deps.DB); err != nil {
			degrade("database", "unhealthy")
		}

		if deps.Redis == nil {
			health["redis"] = "not configured"
		} else if err := pingRedis(ctx, deps.Redis); err != nil {
			degrade("redis", "unhealthy")
		}

		if deps.NATS == nil {
			health["nats"] = "not configured"
		} else if !deps.NATS.Healthy() {
			degrade("nats", "unhealthy")
		}

		JSON(w, status, health)
	}
}

func pingRedis(ctx context.Context, client redis.UniversalClient) error {
	return client.Ping(ctx).Err()
}
