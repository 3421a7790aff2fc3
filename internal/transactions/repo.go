package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const txColumns = `id, user_id, category_id, amount, description, type, occurred_at`

func scanTx(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description, &t.Type, &t.Timestamp); err != nil {
		return nil, err
	}
	t.Timestamp = t.Timestamp.UTC()
	return &t, nil
}

func collect(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO transactions (id, user_id, category_id, amount, description, type, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.UserID, t.CategoryID, t.Amount, t.Description, t.Type, t.Timestamp)
	if db.IsForeignKeyViolation(err) {
		return apperr.Wrap(apperr.ErrNotFound, "user not found", err)
	}
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, owner uuid.UUID, offset, limit int) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id
		OFFSET $2 LIMIT $3
	`, owner, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, owner, id uuid.UUID) (*domain.Transaction, error) {
	t, err := scanTx(r.Pool.QueryRow(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`, id, owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Delete removes the caller's transaction and returns what was deleted.
func (r *Repo) Delete(ctx context.Context, owner, id uuid.UUID) (*domain.Transaction, error) {
	t, err := scanTx(r.Pool.QueryRow(ctx, `
		DELETE FROM transactions
		WHERE id = $1 AND user_id = $2
		RETURNING `+txColumns, id, owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}
	return t, nil
}

// ListBetween returns owner's transactions in [from, to), newest first.
func (r *Repo) ListBetween(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE user_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at DESC, id
	`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions by range: %w", err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("list transactions by range: %w", err)
	}
	return out, nil
}
