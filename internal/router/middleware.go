package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/logging"
)

// UseMiddleware installs the cross-cutting stack. recover sits inside the
// request logger so a panicking request is still logged with its status.
func UseMiddleware(app *fiber.App, logger zerolog.Logger, corsOrigin string) {
	app.Use(requestid.New())
	app.Use(logging.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(CorsMiddleware(corsOrigin))
}
