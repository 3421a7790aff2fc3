package audit

import (
	"context"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
)

func TestFromRequest(t *testing.T) {
	uid := uuid.New()
	var (
		mu  sync.Mutex
		got Entry
	)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		mu.Lock()
		got = FromRequest(c, &uid, ActionLogin, "user").WithEntity(uid.String())
		mu.Unlock()
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "fintrack-test")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, ActionLogin, got.Action)
	assert.Equal(t, "user", got.EntityType)
	require.NotNil(t, got.UserID)
	assert.Equal(t, uid, *got.UserID)
	require.NotNil(t, got.EntityID)
	assert.Equal(t, uid.String(), *got.EntityID)
	require.NotNil(t, got.UserAgent)
	assert.Equal(t, "fintrack-test", *got.UserAgent)
	assert.NotNil(t, got.IP)
}

func TestWriterWithoutPoolIsNoop(t *testing.T) {
	w := NewWriter(nil, zerolog.Nop())
	assert.NoError(t, w.Write(context.Background(), Entry{Action: ActionLogout, EntityType: "user"}))
	w.Record(context.Background(), Entry{Action: ActionLogout, EntityType: "user"})
}

func TestWriterInsertsRow(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(dsn))
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	defer pool.Close()

	w := NewWriter(pool, zerolog.Nop())
	action := "test." + uuid.NewString()
	require.NoError(t, w.Write(context.Background(), Entry{
		Action:     action,
		EntityType: "user",
		Metadata:   map[string]any{"reason": "test"},
	}))

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM audit_logs WHERE action = $1`, action).Scan(&n))
	assert.Equal(t, 1, n)
}
