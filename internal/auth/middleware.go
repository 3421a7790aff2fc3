package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/logging"
)

const (
	userLocal   = "user"
	claimsLocal = "claims"
)

// Middleware requires a valid bearer access token and stores the resolved
// user in the request locals.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("missing token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperr.Unauthorized("invalid authorization header")
		}

		user, claims, err := svc.Verify(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(userLocal, user)
		c.Locals(claimsLocal, claims)
		c.Locals(logging.UserIDLocal, user.ID.String())
		return c.Next()
	}
}

// CurrentUser returns the user stored by Middleware.
func CurrentUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := c.Locals(userLocal).(*domain.User)
	if !ok || user == nil {
		return nil, apperr.Unauthorized("not authenticated")
	}
	return user, nil
}

// CurrentClaims returns the access token claims stored by Middleware.
func CurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals(claimsLocal).(*Claims)
	if !ok || claims == nil {
		return nil, apperr.Unauthorized("not authenticated")
	}
	return claims, nil
}
