package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

// ErrorHandler renders every error as {"error": message}. Known kinds keep
// their message; anything else is logged and reported as a 500.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		status, message, ok := apperr.Status(err)
		if !ok {
			ev := logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path())
			if rid, ok := c.Locals("requestid").(string); ok {
				ev = ev.Str("request_id", rid)
			}
			ev.Msg("unhandled error")
		}
		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}

// NewApp returns a fiber app wired with ErrorHandler.
func NewApp(logger zerolog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})
}
