package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/transactions"
)

type Handler struct {
	txs  TransactionSource
	cats CategorySource
	now  func() time.Time
}

func NewHandler(txs TransactionSource, cats CategorySource) *Handler {
	return &Handler{txs: txs, cats: cats, now: time.Now}
}

// StatementPDF serves GET /transaction/statement?month=&year=.
func (h *Handler) StatementPDF(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	month, year, err := transactions.MonthQuery(c)
	if err != nil {
		return err
	}
	from, to, err := transactions.MonthRange(month, year)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	txs, err := h.txs.ListByMonth(ctx, user.ID, month, year)
	if err != nil {
		return err
	}
	cats, err := h.cats.List(ctx, "")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, BuildStatement(*user, from, to, txs, cats), h.now()); err != nil {
		return err
	}

	filename := fmt.Sprintf("fintrack-statement-%04d-%02d.pdf", year, month)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
