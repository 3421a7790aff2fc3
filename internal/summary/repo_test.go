package summary

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/categories"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/transactions"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/users"
)

func TestRepoAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(dsn))
	pool, err := db.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	defer pool.Close()
	ctx := context.Background()

	u := &domain.User{ID: uuid.New(), Name: "s", Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(t, users.NewRepository(pool).Create(ctx, u))
	cat := &domain.Category{Name: "sum-" + uuid.NewString(), Type: domain.Expense}
	require.NoError(t, categories.NewRepository(pool).Create(ctx, cat))

	txRepo := transactions.NewRepo(pool)
	for _, amt := range []string{"10.10", "5.05"} {
		require.NoError(t, txRepo.Create(ctx, &domain.Transaction{
			ID: uuid.New(), UserID: u.ID, CategoryID: &cat.ID, Amount: decimal.RequireFromString(amt),
			Type: domain.Expense, Timestamp: time.Now().UTC(),
		}))
	}

	svc := NewService(NewRepo(pool))
	balance, err := svc.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "-15.15", balance.StringFixed(2))

	repo := NewRepo(pool)
	sum, err := repo.CategorySum(ctx, u.ID, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "15.15", sum.StringFixed(2))
	n, err := repo.CategoryCount(ctx, u.ID, cat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	empty, err := svc.Balance(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}
