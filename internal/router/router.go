package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/categories"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/config"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/reports"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/summary"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/transactions"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/users"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	AuthHandler        *auth.Handler
	UserHandler        *users.Handler
	CategoryHandler    *categories.Handler
	TransactionHandler *transactions.Handler
	SummaryHandler     *summary.Handler
	ReportHandler      *reports.Handler
	AuthMW             fiber.Handler
	RateLimit          config.RateLimit
	DB                 Pinger
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Get("/health", r.health)

	authLimit := RateLimitAuth(r.RateLimit)
	writeLimit := RateLimitWrite(r.RateLimit)

	if r.AuthHandler != nil {
		app.Post("/login", authLimit, r.AuthHandler.Login)
		app.Post("/refresh", authLimit, r.AuthHandler.Refresh)
		app.Post("/logout", r.AuthMW, r.AuthHandler.Logout)
	}

	if r.UserHandler != nil {
		app.Post("/user", authLimit, r.UserHandler.Register)
		app.Get("/user", r.AuthMW, r.UserHandler.List)
		app.Put("/user/edit", r.AuthMW, writeLimit, r.UserHandler.UpdateProfile)
	}

	if r.CategoryHandler != nil {
		app.Post("/category", r.AuthMW, writeLimit, r.CategoryHandler.Create)
		app.Get("/category", r.AuthMW, r.CategoryHandler.List)
		app.Get("/category/filter", r.AuthMW, r.CategoryHandler.Filter)
	}
	if r.SummaryHandler != nil {
		app.Get("/category/stats", r.AuthMW, r.SummaryHandler.CategoryStats)
		app.Get("/transaction/balance", r.AuthMW, r.SummaryHandler.Balance)
	}
	if r.ReportHandler != nil {
		app.Get("/transaction/statement", r.AuthMW, r.ReportHandler.StatementPDF)
	}

	// Fixed paths must be registered before /transaction/:id.
	if r.TransactionHandler != nil {
		app.Post("/transaction/new", r.AuthMW, writeLimit, r.TransactionHandler.Create)
		app.Get("/transaction", r.AuthMW, r.TransactionHandler.List)
		app.Get("/transaction/by-month", r.AuthMW, r.TransactionHandler.ByMonth)
		app.Get("/transaction/:id", r.AuthMW, r.TransactionHandler.Get)
		app.Delete("/transaction/:id", r.AuthMW, writeLimit, r.TransactionHandler.Delete)
	}
}

func (r *Router) health(c *fiber.Ctx) error {
	if r.DB == nil {
		return c.JSON(fiber.Map{"ok": true})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := r.DB.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "database": "unreachable"})
	}
	return c.JSON(fiber.Map{"ok": true, "database": "ok"})
}
