package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserIDLocal is the fiber locals key holding the authenticated user's id.
const UserIDLocal = "user_id"

// RequestLogger logs one line per request after the handler chain has run.
// Errors are resolved by the app's ErrorHandler first so the logged status is final.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = logger.Error()
		case status >= 400:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}

		ev = ev.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("request_id", rid)
		}
		if uid, ok := c.Locals(UserIDLocal).(string); ok && uid != "" {
			ev = ev.Str("user_id", uid)
		}
		ev.Msg("request")
		return nil
	}
}
