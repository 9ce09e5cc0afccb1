package middleware

import (
	"time"

	appErr "hyperdrive/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// DailyLimit allows max calls per client IP per 24h fixed window. name keeps
// the counters of different routes apart when they share storage. A nil
// storage keeps counters in process memory.
func DailyLimit(name string, max int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 24 * time.Hour,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return appErr.New(appErr.CodeRateLimited, "Rate limit exceeded")
		},
		Storage:           storage,
		LimiterMiddleware: limiter.FixedWindow{},
	})
}
