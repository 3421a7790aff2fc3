package categories

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}

	cat, err := h.svc.Create(c.UserContext(), req.Name, req.Type)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *Handler) List(c *fiber.Ctx) error {
	return h.list(c, "")
}

// Filter handles GET /category/filter?category_name=.
func (h *Handler) Filter(c *fiber.Ctx) error {
	return h.list(c, c.Query("category_name"))
}

func (h *Handler) list(c *fiber.Ctx, filter string) error {
	list, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if list == nil {
		return c.JSON([]any{})
	}
	return c.JSON(list)
}
