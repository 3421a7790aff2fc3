package summary

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/money"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Balance responds with the caller's net balance as a bare JSON number.
func (h *Handler) Balance(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	balance, err := h.svc.Balance(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(money.Number(balance))
}

func (h *Handler) CategoryStats(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	out := []CategoryStat{}
	for stat, err := range h.svc.CategoryStats(c.UserContext(), user.ID) {
		if err != nil {
			return err
		}
		out = append(out, stat)
	}
	return c.JSON(out)
}
