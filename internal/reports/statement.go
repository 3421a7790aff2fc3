package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

// TransactionSource supplies a user's transactions for one calendar month.
type TransactionSource interface {
	ListByMonth(ctx context.Context, owner uuid.UUID, month, year int) ([]domain.Transaction, error)
}

// CategorySource supplies category names for the statement rows.
type CategorySource interface {
	List(ctx context.Context, filter string) ([]domain.Category, error)
}

type StatementItem struct {
	Transaction domain.Transaction
	Category    string
}

type Statement struct {
	Owner        domain.User
	From         time.Time
	To           time.Time
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Items        []StatementItem
}

func (s Statement) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// BuildStatement totals txs and attaches category names. from and to bound
// the period as [from, to).
func BuildStatement(owner domain.User, from, to time.Time, txs []domain.Transaction, cats []domain.Category) Statement {
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	st := Statement{Owner: owner, From: from, To: to, TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case domain.Income:
			st.TotalIncome = st.TotalIncome.Add(t.Amount)
		case domain.Expense:
			st.TotalExpense = st.TotalExpense.Add(t.Amount)
		}
		item := StatementItem{Transaction: t}
		if t.CategoryID != nil {
			item.Category = names[*t.CategoryID]
		}
		st.Items = append(st.Items, item)
	}
	return st
}
