package categories

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

func TestRepositoryAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(dsn))
	pool, err := db.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewRepository(pool)
	svc := NewService(repo)
	ctx := context.Background()
	name := "cat-" + uuid.NewString()

	c := &domain.Category{Name: name, Type: domain.Expense}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID)
	assert.ErrorIs(t, repo.Create(ctx, &domain.Category{Name: name, Type: domain.Income}), apperr.ErrConflict)

	racy := "race-" + uuid.NewString()
	var wg sync.WaitGroup
	ids := make([]int64, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := svc.Resolve(ctx, racy, domain.Income)
			errs[i] = err
			if err == nil {
				ids[i] = got.ID
			}
		}(i)
	}
	wg.Wait()
	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}
