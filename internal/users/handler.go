package users

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/audit"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/paging"
)

type Handler struct {
	svc   *Service
	audit audit.Recorder
}

func NewHandler(svc *Service, rec audit.Recorder) *Handler {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Handler{svc: svc, audit: rec}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}

	u, err := h.svc.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.audit.Record(c.UserContext(), audit.FromRequest(c, &u.ID, audit.ActionUserRegistered, "user").WithEntity(u.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *Handler) List(c *fiber.Ctx) error {
	page, err := paging.Parse(c)
	if err != nil {
		return err
	}

	list, err := h.svc.List(c.UserContext(), page.Offset, page.Limit)
	if err != nil {
		return err
	}
	if list == nil {
		return c.JSON([]any{})
	}
	return c.JSON(list)
}

type updateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	current, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.UserContext(), current, req.Name, req.Email)
	if err != nil {
		return err
	}

	entry := audit.FromRequest(c, &u.ID, audit.ActionUserUpdated, "user").WithEntity(u.ID.String())
	if u.Email != current.Email {
		entry.Metadata = map[string]any{"email_changed": true}
	}
	h.audit.Record(c.UserContext(), entry)
	return c.JSON(u)
}
