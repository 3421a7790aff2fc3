package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Create(ctx context.Context, c *domain.Category) error {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO categories (name, type)
		VALUES ($1, $2)
		RETURNING id
	`, c.Name, c.Type).Scan(&c.ID)
	if db.IsUniqueViolation(err) {
		return apperr.Wrap(apperr.ErrConflict, "category exists already", err)
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the category unless the name is already taken.
// Concurrent callers converge on a single row.
func (r *Repository) CreateIfAbsent(ctx context.Context, name string, typ domain.TransactionType) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO categories (name, type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, name, typ)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.Pool.QueryRow(ctx, `SELECT id, name, type FROM categories WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}
