package summary

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/money"
)

// ErrConsumed is yielded when a CategoryStats sequence is ranged over twice.
var ErrConsumed = errors.New("category stats already consumed")

type Store interface {
	SumByType(ctx context.Context, owner uuid.UUID, typ domain.TransactionType) (decimal.Decimal, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	CategorySum(ctx context.Context, owner uuid.UUID, categoryID int64) (decimal.Decimal, error)
	CategoryCount(ctx context.Context, owner uuid.UUID, categoryID int64) (int64, error)
}

type CategoryStat struct {
	CategoryName     string          `json:"category_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int64           `json:"transaction_count"`
}

func (s CategoryStat) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CategoryName     string      `json:"category_name"`
		TotalAmount      json.Number `json:"total_amount"`
		TransactionCount int64       `json:"transaction_count"`
	}{s.CategoryName, money.Number(s.TotalAmount), s.TransactionCount})
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Balance is total income minus total expense; zero with no transactions.
func (s *Service) Balance(ctx context.Context, owner uuid.UUID) (decimal.Decimal, error) {
	income, err := s.store.SumByType(ctx, owner, domain.Income)
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := s.store.SumByType(ctx, owner, domain.Expense)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expense), nil
}

// CategoryStats yields one entry per category with owner's total and count
// in it. Nothing is queried until iteration starts, each entry is computed
// as it is reached, and the sequence can be ranged over only once. An error
// ends the sequence.
func (s *Service) CategoryStats(ctx context.Context, owner uuid.UUID) iter.Seq2[CategoryStat, error] {
	var used atomic.Bool
	return func(yield func(CategoryStat, error) bool) {
		if used.Swap(true) {
			yield(CategoryStat{}, ErrConsumed)
			return
		}

		cats, err := s.store.Categories(ctx)
		if err != nil {
			yield(CategoryStat{}, err)
			return
		}

		for _, c := range cats {
			total, err := s.store.CategorySum(ctx, owner, c.ID)
			if err != nil {
				yield(CategoryStat{}, err)
				return
			}
			count, err := s.store.CategoryCount(ctx, owner, c.ID)
			if err != nil {
				yield(CategoryStat{}, err)
				return
			}
			if !yield(CategoryStat{CategoryName: c.Name, TotalAmount: total, TransactionCount: count}, nil) {
				return
			}
		}
	}
}
