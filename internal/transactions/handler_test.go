package transactions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/categories"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	apphttp "github.com/ishantswami13-crypto/fintrack-backend/internal/http"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/memstore"
)

type handlerEnv struct {
	app    *fiber.App
	tokens map[string]string
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	mem := memstore.New()
	users := mem.Users()
	iss, err := auth.NewIssuer("0123456789abcdef0123456789abcdef", "HS256", time.Hour, 2*time.Hour)
	require.NoError(t, err)

	env := &handlerEnv{tokens: map[string]string{}}
	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		require.NoError(t, users.Create(context.Background(), &domain.User{ID: uuid.New(), Name: email, Email: email, PasswordHash: "x"}))
		tok, err := iss.IssueAccess(email)
		require.NoError(t, err)
		env.tokens[email] = tok.Raw
	}

	svc := NewService(mem.Transactions(), categories.NewService(mem.Categories()), nil, zerolog.Nop())
	h := NewHandler(svc, nil)
	mw := auth.Middleware(auth.NewService(users, iss, nil))

	app := apphttp.NewApp(zerolog.Nop())
	app.Post("/transaction/new", mw, h.Create)
	app.Get("/transaction", mw, h.List)
	app.Get("/transaction/by-month", mw, h.ByMonth)
	app.Get("/transaction/:id", mw, h.Get)
	app.Delete("/transaction/:id", mw, h.Delete)
	env.app = app
	return env
}

func (e *handlerEnv) do(t *testing.T, who, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.tokens[who])
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

func TestCreateAndFetch(t *testing.T) {
	env := newHandlerEnv(t)

	resp, raw := env.do(t, "alice@example.com", "POST", "/transaction/new",
		`{"amount": 1200, "description": "Rent", "type": "expense", "timestamp": "2024-03-05T10:00:00Z"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, 1200.0, created["amount"])
	assert.Equal(t, "expense", created["type"])
	assert.Equal(t, "2024-03-05T10:00:00Z", created["timestamp"])
	assert.NotNil(t, created["category_id"])
	id := created["id"].(string)

	resp, _ = env.do(t, "alice@example.com", "GET", "/transaction/"+id, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, raw = env.do(t, "bob@example.com", "GET", "/transaction/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"transaction not found"}`, string(raw))

	resp, _ = env.do(t, "bob@example.com", "DELETE", "/transaction/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "alice@example.com", "GET", "/transaction/by-month?month=3&year=2024", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, "alice@example.com", "DELETE", "/transaction/"+id, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, "alice@example.com", "GET", "/transaction/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "alice@example.com", "GET", "/transaction/not-a-uuid", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateRejectsBadInput(t *testing.T) {
	env := newHandlerEnv(t)

	for _, body := range []string{
		`{"amount": 10, "description": "x"}`,
		`{"amount": 0, "description": "x", "type": "income"}`,
		`{"amount": -5, "description": "x", "type": "income"}`,
		`{"amount": "abc", "description": "x", "type": "income"}`,
		`not json`,
	} {
		resp, raw := env.do(t, "alice@example.com", "POST", "/transaction/new", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "%s -> %s", body, raw)
	}
}

func TestCreateAcceptsDecimalComma(t *testing.T) {
	env := newHandlerEnv(t)

	resp, raw := env.do(t, "alice@example.com", "POST", "/transaction/new", `{"amount": "12,505", "type": "income"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, 12.51, created["amount"])
}

func TestListPagination(t *testing.T) {
	env := newHandlerEnv(t)
	for i := 0; i < 3; i++ {
		resp, _ := env.do(t, "alice@example.com", "POST", "/transaction/new", `{"amount": "1.50", "type": "income"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, raw := env.do(t, "alice@example.com", "GET", "/transaction?limit=2", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items))
	assert.Len(t, items, 2)

	resp, raw = env.do(t, "bob@example.com", "GET", "/transaction", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))

	resp, _ = env.do(t, "alice@example.com", "GET", "/transaction?limit=500", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestByMonthValidation(t *testing.T) {
	env := newHandlerEnv(t)

	for _, q := range []string{"month=13&year=2024", "month=0&year=2024", "month=5&year=1999", "month=x&year=2024", ""} {
		resp, raw := env.do(t, "alice@example.com", "GET", "/transaction/by-month?"+q, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
		assert.JSONEq(t, `{"error":"invalid month or year"}`, string(raw))
	}
}
