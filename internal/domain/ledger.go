package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// ParseTransactionType accepts "income" or "expense" in any case. There is
// no default: an empty type is an InvalidArgument.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	case "":
		return "", apperr.InvalidArgument("type is required (income or expense)")
	default:
		return "", apperr.InvalidArgument("type must be income or expense")
	}
}

// Category is a global, named bucket. Names are stored lowercased and are
// unique regardless of type.
type Category struct {
	ID   int64           `db:"id" json:"id"`
	Name string          `db:"name" json:"name"`
	Type TransactionType `db:"type" json:"type"`
}

// NormalizeCategoryName is the canonical form used for storage and lookups.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Transaction is owned by exactly one user and never updated in place.
type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	CategoryID  *int64          `db:"category_id" json:"category_id,omitempty"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	Type        TransactionType `db:"type" json:"type"`
	Timestamp   time.Time       `db:"occurred_at" json:"timestamp"`
}
