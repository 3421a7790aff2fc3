package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
)

// UserFinder looks users up by their login email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Service struct {
	users   UserFinder
	tokens  *Issuer
	revoker Revoker
}

func NewService(users UserFinder, tokens *Issuer, revoker Revoker) *Service {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &Service{users: users, tokens: tokens, revoker: revoker}
}

var errBadCredentials = apperr.Unauthorized("incorrect email or password")

// Authenticate returns the user owning email when password matches its hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, errBadCredentials
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked atomically, so concurrent replays of it yield one pair at most.
func (s *Service) Refresh(ctx context.Context, raw string) (*domain.User, TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(raw)
	if err != nil {
		return nil, TokenPair{}, err
	}
	first, err := s.revoker.RevokeOnce(ctx, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if !first {
		return nil, TokenPair{}, apperr.InvalidToken("token revoked")
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Logout revokes the access token in use and, when given, the caller's
// refresh token. An expired refresh token is already unusable and is ignored.
func (s *Service) Logout(ctx context.Context, access *Claims, refreshRaw string) error {
	if err := s.revoker.Revoke(ctx, access.ID, access.ExpiresAt.Time); err != nil {
		return err
	}
	if refreshRaw == "" {
		return nil
	}

	refresh, err := s.tokens.ParseRefresh(refreshRaw)
	if errors.Is(err, apperr.ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if refresh.Subject != access.Subject {
		return apperr.InvalidToken("refresh token belongs to another user")
	}
	return s.revoker.Revoke(ctx, refresh.ID, refresh.ExpiresAt.Time)
}

// Verify resolves a bearer access token to its user.
func (s *Service) Verify(ctx context.Context, raw string) (*domain.User, *Claims, error) {
	claims, err := s.tokens.ParseAccess(raw)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil, apperr.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	return user, claims, nil
}

func (s *Service) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return apperr.InvalidToken("token revoked")
	}
	return nil
}

func (s *Service) issuePair(subject string) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(subject)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(subject)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access.Raw, RefreshToken: refresh.Raw, TokenType: "bearer"}, nil
}
