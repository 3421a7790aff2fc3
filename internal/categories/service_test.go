package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/memstore"
)

func TestCreate(t *testing.T) {
	svc := NewService(memstore.New().Categories())
	ctx := context.Background()

	c, err := svc.Create(ctx, " Rent ", "expense")
	require.NoError(t, err)
	assert.Equal(t, "rent", c.Name)
	assert.Equal(t, domain.Expense, c.Type)
	assert.NotZero(t, c.ID)

	_, err = svc.Create(ctx, "RENT", "expense")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, "rent", "income")
	assert.ErrorIs(t, err, apperr.ErrConflict, "names are unique across types")

	_, err = svc.Create(ctx, "  ", "income")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Create(ctx, "salary", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestList(t *testing.T) {
	svc := NewService(memstore.New().Categories())
	ctx := context.Background()

	list, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Create(ctx, "rent", "expense")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "salary", "income")
	require.NoError(t, err)

	list, err = svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "rent", list[0].Name)

	list, err = svc.List(ctx, "Salary")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Income, list[0].Type)

	list, err = svc.List(ctx, "food")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestResolve(t *testing.T) {
	store := memstore.New().Categories()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Resolve(ctx, "Groceries", domain.Expense)
	require.NoError(t, err)
	assert.Equal(t, "groceries", created.Name)

	again, err := svc.Resolve(ctx, "groceries", domain.Expense)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = svc.Resolve(ctx, "groceries", domain.Income)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Resolve(ctx, "", domain.Income)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
