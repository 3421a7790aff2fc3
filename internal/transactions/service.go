package transactions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/events"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/money"
)

type Store interface {
	Create(ctx context.Context, t *domain.Transaction) error
	List(ctx context.Context, owner uuid.UUID, offset, limit int) ([]domain.Transaction, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*domain.Transaction, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (*domain.Transaction, error)
	ListBetween(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]domain.Transaction, error)
}

// CategoryResolver finds or creates the category a new transaction is filed under.
type CategoryResolver interface {
	Resolve(ctx context.Context, name string, typ domain.TransactionType) (*domain.Category, error)
}

type Service struct {
	store      Store
	categories CategoryResolver
	events     events.Publisher
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(store Store, categories CategoryResolver, pub events.Publisher, logger zerolog.Logger) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		store:      store,
		categories: categories,
		events:     pub,
		logger:     logger.With().Str("component", "transactions").Logger(),
		now:        time.Now,
	}
}

type CreateInput struct {
	Amount      decimal.Decimal
	Description string
	Type        string
	Category    string
	Timestamp   *time.Time
}

// Create records a transaction for owner. The category is looked up by
// Category, or by the description when Category is empty.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*domain.Transaction, error) {
	typ, err := domain.ParseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}
	amount, err := money.Normalize(in.Amount)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "amount must be a positive number", err)
	}

	t := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      owner,
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		Timestamp:   s.now().UTC(),
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		t.Timestamp = in.Timestamp.UTC()
	}

	name := in.Category
	if strings.TrimSpace(name) == "" {
		name = t.Description
	}
	if domain.NormalizeCategoryName(name) != "" {
		cat, err := s.categories.Resolve(ctx, name, typ)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &cat.ID
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TransactionCreated, t)
	return t, nil
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, offset, limit int) ([]domain.Transaction, error) {
	return s.store.List(ctx, owner, offset, limit)
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*domain.Transaction, error) {
	return s.store.Get(ctx, owner, id)
}

func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.store.Delete(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TransactionDeleted, t)
	return t, nil
}

func (s *Service) ListByMonth(ctx context.Context, owner uuid.UUID, month, year int) ([]domain.Transaction, error) {
	from, to, err := MonthRange(month, year)
	if err != nil {
		return nil, err
	}
	return s.store.ListBetween(ctx, owner, from, to)
}

// publish is best effort: the row is already committed.
func (s *Service) publish(ctx context.Context, kind string, t *domain.Transaction) {
	err := s.events.Publish(ctx, events.NewTransactionEvent(kind, t))
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Str("kind", kind).Str("transaction_id", t.ID.String()).Msg("publish event failed")
	}
}
