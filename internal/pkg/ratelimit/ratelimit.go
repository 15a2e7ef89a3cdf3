package ratelimit

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/JonasWeber/TrackNest/internal/pkg/env"
)

// New builds the request limiter installed in front of the payment API. The
// limiter is an injected component with a pluggable backing store: the
// default in-process counters suit single-instance deployments, while
// RATE_LIMIT_STORAGE=redis shares counters across instances.
func New() fiber.Handler {
	cfg := limiter.Config{
		Max:        env.GetEnvInt("RATE_LIMIT_MAX", 60),
		Expiration: time.Duration(env.GetEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Limit per caller and per reference so retries for one payment
			// cannot starve other callers behind the same IP.
			ref := strings.TrimSpace(c.Query("reference"))
			if ref == "" {
				return c.IP()
			}
			return c.IP() + ":" + ref
		},
	}

	if strings.EqualFold(env.GetEnv("RATE_LIMIT_STORAGE", ""), "redis") {
		cfg.Storage = redisstorage.New(redisstorage.Config{
			Host: env.GetEnv("CACHE_HOST", "localhost"),
			Port: env.GetEnvInt("CACHE_PORT", 6379),
		})
	}

	return limiter.New(cfg)
}
