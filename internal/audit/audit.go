package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	ActionUserRegistered     = "user.registered"
	ActionUserUpdated        = "user.updated"
	ActionLogin              = "auth.login"
	ActionLoginFailed        = "auth.login_failed"
	ActionRefresh            = "auth.refresh"
	ActionLogout             = "auth.logout"
	ActionTransactionDeleted = "transaction.deleted"
)

type Entry struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	EntityID   *string
	IP         *string
	UserAgent  *string
	Metadata   map[string]any
}

// Recorder is implemented by anything that can store audit entries.
// Recording never fails the caller's request.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type Writer struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

func NewWriter(pool *pgxpool.Pool, logger zerolog.Logger) *Writer {
	return &Writer{Pool: pool, Logger: logger.With().Str("component", "audit").Logger()}
}

// Write inserts an audit entry and returns any failure.
func (w *Writer) Write(ctx context.Context, e Entry) error {
	if w.Pool == nil {
		return nil
	}

	var metadata any
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadata = json.RawMessage(raw)
	}

	_, err := w.Pool.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip, user_agent, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, e.UserID, e.Action, e.EntityType, e.EntityID, e.IP, e.UserAgent, metadata)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Record writes e and logs failures instead of returning them.
func (w *Writer) Record(ctx context.Context, e Entry) {
	if err := w.Write(ctx, e); err != nil {
		w.Logger.Warn().Err(err).Str("action", e.Action).Msg("audit write failed")
	}
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}

// FromRequest starts an entry carrying the caller's address and user agent.
func FromRequest(c *fiber.Ctx, userID *uuid.UUID, action, entityType string) Entry {
	e := Entry{UserID: userID, Action: action, EntityType: entityType}
	if ip := c.IP(); ip != "" {
		e.IP = &ip
	}
	if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
		e.UserAgent = &ua
	}
	return e
}

// WithEntity sets the entity id.
func (e Entry) WithEntity(id string) Entry {
	e.EntityID = &id
	return e
}
