// Package memstore holds in-memory versions of the PostgreSQL repositories
// for service and handler tests. Each view mirrors one repository's
// behavior, including its unique constraints and ownership predicates.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

type DB struct {
	mu           sync.Mutex
	users        []domain.User
	categories   []domain.Category
	transactions []domain.Transaction
	nextCategory int64

	// Calls counts aggregate queries, keyed by method name.
	Calls map[string]int
}

func New() *DB {
	return &DB{nextCategory: 1, Calls: make(map[string]int)}
}

func (db *DB) Users() *Users               { return &Users{db} }
func (db *DB) Categories() *Categories     { return &Categories{db} }
func (db *DB) Transactions() *Transactions { return &Transactions{db} }
func (db *DB) Summary() *Summary           { return &Summary{db} }

// CallCount is the number of times method has been called on a view.
func (db *DB) CallCount(method string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.Calls[method]
}

type Users struct{ db *DB }

func (u *Users) Create(_ context.Context, user *domain.User) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	for _, existing := range u.db.users {
		if existing.Email == user.Email {
			return apperr.Conflict("user exists already")
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u.db.users = append(u.db.users, *user)
	return nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	for _, existing := range u.db.users {
		if existing.Email == email {
			found := existing
			return &found, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (u *Users) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	return page(u.db.users, offset, limit), nil
}

func (u *Users) Update(_ context.Context, user *domain.User) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	idx := -1
	for i, existing := range u.db.users {
		if existing.ID == user.ID {
			idx = i
		} else if existing.Email == user.Email {
			return apperr.Conflict("email already in use")
		}
	}
	if idx < 0 {
		return apperr.NotFound("user not found")
	}
	u.db.users[idx].Name = user.Name
	u.db.users[idx].Email = user.Email
	return nil
}

type Categories struct{ db *DB }

func (c *Categories) Create(_ context.Context, cat *domain.Category) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.findLocked(cat.Name) != nil {
		return apperr.Conflict("category exists already")
	}
	cat.ID = c.db.nextCategory
	c.db.nextCategory++
	c.db.categories = append(c.db.categories, *cat)
	return nil
}

func (c *Categories) CreateIfAbsent(_ context.Context, name string, typ domain.TransactionType) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.findLocked(name) != nil {
		return nil
	}
	c.db.categories = append(c.db.categories, domain.Category{ID: c.db.nextCategory, Name: name, Type: typ})
	c.db.nextCategory++
	return nil
}

func (c *Categories) List(context.Context) ([]domain.Category, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return append([]domain.Category(nil), c.db.categories...), nil
}

func (c *Categories) FindByName(_ context.Context, name string) (*domain.Category, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if found := c.findLocked(name); found != nil {
		cp := *found
		return &cp, nil
	}
	return nil, apperr.NotFound("category not found")
}

func (c *Categories) findLocked(name string) *domain.Category {
	for i := range c.db.categories {
		if c.db.categories[i].Name == name {
			return &c.db.categories[i]
		}
	}
	return nil
}

type Transactions struct{ db *DB }

func (t *Transactions) Create(_ context.Context, tx *domain.Transaction) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.transactions = append(t.db.transactions, *tx)
	return nil
}

func (t *Transactions) List(_ context.Context, owner uuid.UUID, offset, limit int) ([]domain.Transaction, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	return page(t.ownedLocked(owner, time.Time{}, time.Time{}), offset, limit), nil
}

func (t *Transactions) Get(_ context.Context, owner, id uuid.UUID) (*domain.Transaction, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for _, tx := range t.db.transactions {
		if tx.ID == id && tx.UserID == owner {
			found := tx
			return &found, nil
		}
	}
	return nil, apperr.NotFound("transaction not found")
}

func (t *Transactions) Delete(_ context.Context, owner, id uuid.UUID) (*domain.Transaction, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for i, tx := range t.db.transactions {
		if tx.ID == id && tx.UserID == owner {
			t.db.transactions = append(t.db.transactions[:i], t.db.transactions[i+1:]...)
			return &tx, nil
		}
	}
	return nil, apperr.NotFound("transaction not found")
}

func (t *Transactions) ListBetween(_ context.Context, owner uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	return t.ownedLocked(owner, from, to), nil
}

// ownedLocked returns owner's transactions newest first, limited to
// [from, to) when both bounds are set.
func (t *Transactions) ownedLocked(owner uuid.UUID, from, to time.Time) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range t.db.transactions {
		if tx.UserID != owner {
			continue
		}
		if !from.IsZero() && (tx.Timestamp.Before(from) || !tx.Timestamp.Before(to)) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

type Summary struct{ db *DB }

func (s *Summary) SumByType(_ context.Context, owner uuid.UUID, typ domain.TransactionType) (decimal.Decimal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.Calls["SumByType"]++
	total := decimal.Zero
	for _, tx := range s.db.transactions {
		if tx.UserID == owner && tx.Type == typ {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (s *Summary) Categories(ctx context.Context) ([]domain.Category, error) {
	s.db.mu.Lock()
	s.db.Calls["Categories"]++
	s.db.mu.Unlock()
	return s.db.Categories().List(ctx)
}

func (s *Summary) CategorySum(_ context.Context, owner uuid.UUID, categoryID int64) (decimal.Decimal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.Calls["CategorySum"]++
	total := decimal.Zero
	for _, tx := range s.db.transactions {
		if tx.UserID == owner && tx.CategoryID != nil && *tx.CategoryID == categoryID {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (s *Summary) CategoryCount(_ context.Context, owner uuid.UUID, categoryID int64) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.Calls["CategoryCount"]++
	var n int64
	for _, tx := range s.db.transactions {
		if tx.UserID == owner && tx.CategoryID != nil && *tx.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[offset:end]...)
}
