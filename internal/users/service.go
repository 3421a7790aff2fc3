package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

// Store is the persistence the service needs; Repository implements it.
type Store interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type Service struct {
	store      Store
	bcryptCost int
}

func NewService(store Store, bcryptCost int) *Service {
	return &Service{store: store, bcryptCost: bcryptCost}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email, err := validEmail(email)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.InvalidArgument("name is required")
	}
	if password == "" {
		return nil, apperr.InvalidArgument("password is required")
	}

	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	return s.store.List(ctx, offset, limit)
}

// UpdateProfile overwrites the caller's name and email. Tokens are bound to
// the email, so a changed email requires logging in again.
func (s *Service) UpdateProfile(ctx context.Context, current *domain.User, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email, err := validEmail(email)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.InvalidArgument("name is required")
	}

	if email != current.Email {
		if err := s.ensureEmailFree(ctx, email, current.ID); err != nil {
			return nil, err
		}
	}

	updated := *current
	updated.Name = name
	updated.Email = email
	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == self:
		return nil
	default:
		return apperr.Conflict("user exists already")
	}
}

func validEmail(email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", apperr.InvalidArgument("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.InvalidArgument("invalid email address")
	}
	return email, nil
}
