package transactions

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/audit"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/money"
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

type createRequest struct {
	Amount      amountField     `json:"amount"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Timestamp   *time.Time      `json:"timestamp"`
}

// amountField keeps the amount as written, so "12,50" and 12.5 both reach
// money.Parse.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	if string(b) == "null" {
		*a = ""
		return nil
	}
	*a = amountField(b)
	return nil
}

func (h *Handler) Create(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}

	amount, err := money.Parse(string(req.Amount))
	if err != nil {
		return apperr.Wrap(apperr.ErrInvalidArgument, "amount must be a positive number", err)
	}

	t, err := h.svc.Create(c.UserContext(), user.ID, CreateInput{
		Amount:      amount,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) List(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	page, err := paging.Parse(c)
	if err != nil {
		return err
	}

	items, err := h.svc.List(c.UserContext(), user.ID, page.Offset, page.Limit)
	if err != nil {
		return err
	}
	if items == nil {
		return c.JSON([]any{})
	}
	return c.JSON(items)
}

func (h *Handler) ByMonth(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	month, year, err := MonthQuery(c)
	if err != nil {
		return err
	}

	items, err := h.svc.ListByMonth(c.UserContext(), user.ID, month, year)
	if err != nil {
		return err
	}
	if items == nil {
		return c.JSON([]any{})
	}
	return c.JSON(items)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	t, err := h.svc.Get(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if _, err := h.svc.Delete(c.UserContext(), user.ID, id); err != nil {
		return err
	}

	h.audit.Record(c.UserContext(), audit.FromRequest(c, &user.ID, audit.ActionTransactionDeleted, "transaction").WithEntity(id.String()))
	return c.SendStatus(fiber.StatusNoContent)
}

// MonthQuery reads the required ?month= and ?year= parameters.
func MonthQuery(c *fiber.Ctx) (month, year int, err error) {
	month, err1 := strconv.Atoi(c.Query("month"))
	year, err2 := strconv.Atoi(c.Query("year"))
	if err1 != nil || err2 != nil {
		return 0, 0, apperr.InvalidArgument("invalid month or year")
	}
	return month, year, nil
}

// pathID parses :id. A malformed id cannot name an existing transaction.
func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("transaction not found")
	}
	return id, nil
}
