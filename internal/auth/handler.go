package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/audit"
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

// loginRequest accepts JSON {email,password} or the OAuth2 password form
// {username,password}.
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}
	if email == "" || req.Password == "" {
		return apperr.InvalidArgument("email and password are required")
	}

	user, pair, err := h.svc.Login(c.UserContext(), email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			entry := audit.FromRequest(c, nil, audit.ActionLoginFailed, "user")
			entry.Metadata = map[string]any{"email": email}
			h.audit.Record(c.UserContext(), entry)
		}
		return err
	}

	h.audit.Record(c.UserContext(), audit.FromRequest(c, &user.ID, audit.ActionLogin, "user").WithEntity(user.ID.String()))
	return c.JSON(pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return apperr.InvalidArgument("refresh_token is required")
	}

	user, pair, err := h.svc.Refresh(c.UserContext(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return err
	}

	h.audit.Record(c.UserContext(), audit.FromRequest(c, &user.ID, audit.ActionRefresh, "user").WithEntity(user.ID.String()))
	return c.JSON(pair)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperr.InvalidArgument("invalid request body")
		}
	}

	if err := h.svc.Logout(c.UserContext(), claims, strings.TrimSpace(req.RefreshToken)); err != nil {
		return err
	}

	h.audit.Record(c.UserContext(), audit.FromRequest(c, &user.ID, audit.ActionLogout, "user").WithEntity(user.ID.String()))
	return c.SendStatus(fiber.StatusNoContent)
}
