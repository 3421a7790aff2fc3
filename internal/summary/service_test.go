package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/memstore"
)

func seed(t *testing.T, mem *memstore.DB, owner uuid.UUID, cat *domain.Category, amt string, typ domain.TransactionType) {
	t.Helper()
	tx := &domain.Transaction{
		ID: uuid.New(), UserID: owner, Amount: decimal.RequireFromString(amt), Type: typ, Timestamp: time.Now().UTC(),
	}
	if cat != nil {
		tx.CategoryID = &cat.ID
	}
	require.NoError(t, mem.Transactions().Create(context.Background(), tx))
}

func newCategory(t *testing.T, mem *memstore.DB, name string, typ domain.TransactionType) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Type: typ}
	require.NoError(t, mem.Categories().Create(context.Background(), c))
	return c
}

func TestBalance(t *testing.T) {
	mem := memstore.New()
	svc := NewService(mem.Summary())
	ctx := context.Background()
	owner := uuid.New()

	b, err := svc.Balance(ctx, owner)
	require.NoError(t, err)
	assert.True(t, b.IsZero())

	seed(t, mem, owner, nil, "1000.50", domain.Income)
	seed(t, mem, owner, nil, "200.25", domain.Expense)
	seed(t, mem, owner, nil, "0.25", domain.Expense)
	seed(t, mem, uuid.New(), nil, "999", domain.Income)

	b, err = svc.Balance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "800.00", b.StringFixed(2))
}

func TestCategoryStats(t *testing.T) {
	mem := memstore.New()
	svc := NewService(mem.Summary())
	owner := uuid.New()

	rent := newCategory(t, mem, "rent", domain.Expense)
	salary := newCategory(t, mem, "salary", domain.Income)
	newCategory(t, mem, "unused", domain.Expense)

	seed(t, mem, owner, rent, "600", domain.Expense)
	seed(t, mem, owner, rent, "600", domain.Expense)
	seed(t, mem, owner, salary, "3000", domain.Income)
	seed(t, mem, uuid.New(), rent, "50", domain.Expense)

	var got []CategoryStat
	for stat, err := range svc.CategoryStats(context.Background(), owner) {
		require.NoError(t, err)
		got = append(got, stat)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "rent", got[0].CategoryName)
	assert.Equal(t, "1200", got[0].TotalAmount.String())
	assert.EqualValues(t, 2, got[0].TransactionCount)
	assert.Equal(t, "salary", got[1].CategoryName)
	assert.EqualValues(t, 1, got[1].TransactionCount)
	assert.True(t, got[2].TotalAmount.IsZero())
	assert.Zero(t, got[2].TransactionCount)
}

func TestCategoryStatsIsLazy(t *testing.T) {
	mem := memstore.New()
	svc := NewService(mem.Summary())
	owner := uuid.New()
	for _, name := range []string{"a", "b", "c"} {
		newCategory(t, mem, name, domain.Expense)
	}

	seq := svc.CategoryStats(context.Background(), owner)
	assert.Zero(t, mem.CallCount("Categories"), "nothing runs before iteration")

	for stat, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "a", stat.CategoryName)
		break
	}
	assert.Equal(t, 1, mem.CallCount("Categories"))
	assert.Equal(t, 1, mem.CallCount("CategorySum"), "one sum per consumed element")
	assert.Equal(t, 1, mem.CallCount("CategoryCount"), "one count per consumed element")
}

func TestCategoryStatsIsSinglePass(t *testing.T) {
	mem := memstore.New()
	svc := NewService(mem.Summary())
	newCategory(t, mem, "a", domain.Expense)

	seq := svc.CategoryStats(context.Background(), uuid.New())
	for _, err := range seq {
		require.NoError(t, err)
	}

	var errs []error
	for _, err := range seq {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrConsumed)
}

type failingStore struct{ Store }

func (failingStore) Categories(context.Context) ([]domain.Category, error) {
	return nil, errors.New("db down")
}

func TestCategoryStatsPropagatesErrors(t *testing.T) {
	svc := NewService(failingStore{})
	n := 0
	for _, err := range svc.CategoryStats(context.Background(), uuid.New()) {
		n++
		assert.EqualError(t, err, "db down")
	}
	assert.Equal(t, 1, n)
}
