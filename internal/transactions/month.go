package transactions

import (
	"time"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

const (
	minYear = 2000
	maxYear = 9999
)

// MonthRange returns the half-open UTC range [first day of month, first day
// of the following month).
func MonthRange(month, year int) (from, to time.Time, err error) {
	if month < 1 || month > 12 || year < minYear || year > maxYear {
		return time.Time{}, time.Time{}, apperr.InvalidArgument("invalid month or year")
	}
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	if month == 12 {
		to = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		to = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	}
	return from, to, nil
}
