package summary

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

type Repo struct {
	DB *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{DB: pool}
}

func (r *Repo) SumByType(ctx context.Context, owner uuid.UUID, typ domain.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND type = $2
	`, owner, typ).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", typ, err)
	}
	return total, nil
}

func (r *Repo) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, type FROM categories ORDER BY id`)
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
	return out, rows.Err()
}

func (r *Repo) CategorySum(ctx context.Context, owner uuid.UUID, categoryID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = $1
		  AND user_id = $2
	`, categoryID, owner).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum category %d: %w", categoryID, err)
	}
	return total, nil
}

func (r *Repo) CategoryCount(ctx context.Context, owner uuid.UUID, categoryID int64) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(id)
		FROM transactions
		WHERE category_id = $1
		  AND user_id = $2
	`, categoryID, owner).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category %d: %w", categoryID, err)
	}
	return n, nil
}
