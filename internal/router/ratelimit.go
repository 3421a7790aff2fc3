package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/config"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/logging"
)

// RateLimitAuth limits unauthenticated auth endpoints per IP.
func RateLimitAuth(cfg config.RateLimit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        orDefault(cfg.AuthMax, 10),
		Expiration: cfg.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: tooManyRequests,
	})
}

// RateLimitWrite limits write endpoints per user (if available) else per IP.
func RateLimitWrite(cfg config.RateLimit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        orDefault(cfg.WriteMax, 60),
		Expiration: cfg.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid, ok := c.Locals(logging.UserIDLocal).(string); ok && uid != "" {
				return uid
			}
			return c.IP()
		},
		LimitReached: tooManyRequests,
	})
}

func tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
}

func orDefault(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}
