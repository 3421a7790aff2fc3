package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

// Claims is the token payload. Subject is the user's email; Refresh marks
// long-lived refresh tokens, which are never accepted as access tokens.
type Claims struct {
	Refresh bool `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// Token is a signed token together with the fields needed to revoke it.
type Token struct {
	Raw       string
	ID        string
	ExpiresAt time.Time
}

// Issuer signs and verifies tokens with a single HMAC key.
type Issuer struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &Issuer{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (i *Issuer) IssueAccess(subject string) (Token, error) {
	return i.issue(subject, false, i.accessTTL)
}

func (i *Issuer) IssueRefresh(subject string) (Token, error) {
	return i.issue(subject, true, i.refreshTTL)
}

func (i *Issuer) issue(subject string, refresh bool, ttl time.Duration) (Token, error) {
	now := i.now()
	claims := Claims{
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Raw: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ParseAccess verifies an access token. Refresh tokens are rejected.
func (i *Issuer) ParseAccess(raw string) (*Claims, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.Refresh {
		return nil, apperr.InvalidToken("invalid token")
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token. Access tokens are rejected.
func (i *Issuer) ParseRefresh(raw string) (*Claims, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return nil, err
	}
	if !claims.Refresh {
		return nil, apperr.InvalidToken("not a refresh token")
	}
	return claims, nil
}

func (i *Issuer) parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.ErrExpiredToken, "token expired", err)
		}
		return nil, apperr.Wrap(apperr.ErrInvalidToken, "invalid token", err)
	}
	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, apperr.InvalidToken("invalid token")
	}
	return claims, nil
}
