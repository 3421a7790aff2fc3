package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

type Store interface {
	Create(ctx context.Context, c *domain.Category) error
	CreateIfAbsent(ctx context.Context, name string, typ domain.TransactionType) error
	List(ctx context.Context) ([]domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create adds a category. Names are unique across both types.
func (s *Service) Create(ctx context.Context, name, rawType string) (*domain.Category, error) {
	name = domain.NormalizeCategoryName(name)
	if name == "" {
		return nil, apperr.InvalidArgument("category name is required")
	}
	typ, err := domain.ParseTransactionType(rawType)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindByName(ctx, name); err == nil {
		return nil, apperr.Conflict("category exists already")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	c := &domain.Category{Name: name, Type: typ}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every category, or only the one named filter when filter is set.
func (s *Service) List(ctx context.Context, filter string) ([]domain.Category, error) {
	filter = domain.NormalizeCategoryName(filter)
	if filter == "" {
		list, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		return list, nil
	}

	c, err := s.store.FindByName(ctx, filter)
	if errors.Is(err, apperr.ErrNotFound) {
		return []domain.Category{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []domain.Category{*c}, nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.store.FindByName(ctx, domain.NormalizeCategoryName(name))
}

// Resolve returns the category called name with type typ, creating it when
// missing. A name already used by the other type is a Conflict.
func (s *Service) Resolve(ctx context.Context, name string, typ domain.TransactionType) (*domain.Category, error) {
	name = domain.NormalizeCategoryName(name)
	if name == "" {
		return nil, apperr.InvalidArgument("category name is required")
	}

	c, err := s.store.FindByName(ctx, name)
	if errors.Is(err, apperr.ErrNotFound) {
		if err := s.store.CreateIfAbsent(ctx, name, typ); err != nil {
			return nil, err
		}
		c, err = s.store.FindByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", name, err)
	}

	if c.Type != typ {
		return nil, apperr.Conflict(fmt.Sprintf("category %q is already used for %s", name, c.Type))
	}
	return c, nil
}
