package paging

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

type Page struct {
	Offset int
	Limit  int
}

// Parse reads ?offset= and ?limit= from the query string.
func Parse(c *fiber.Ctx) (Page, error) {
	return New(c.Query("offset"), c.Query("limit"))
}

// New validates raw offset and limit values. Empty values take the defaults.
func New(rawOffset, rawLimit string) (Page, error) {
	p := Page{Offset: 0, Limit: DefaultLimit}

	if rawOffset != "" {
		n, err := strconv.Atoi(rawOffset)
		if err != nil || n < 0 {
			return Page{}, apperr.InvalidArgument("offset must be a non-negative integer")
		}
		p.Offset = n
	}
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 || n > MaxLimit {
			return Page{}, apperr.InvalidArgument("limit must be between 1 and 100")
		}
		p.Limit = n
	}
	return p, nil
}
