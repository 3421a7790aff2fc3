package transactions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/apperr"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month, year int
		from, to    time.Time
	}{
		{1, 2024, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{2, 2024, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{12, 2023, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{6, 2000, time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		from, to, err := MonthRange(tt.month, tt.year)
		require.NoError(t, err)
		assert.True(t, tt.from.Equal(from), "from %d/%d", tt.month, tt.year)
		assert.True(t, tt.to.Equal(to), "to %d/%d", tt.month, tt.year)
		assert.Equal(t, time.UTC, from.Location())
	}
}

func TestMonthRangeRejects(t *testing.T) {
	for _, in := range [][2]int{{0, 2024}, {13, 2024}, {-1, 2024}, {5, 1999}, {5, 10000}} {
		_, _, err := MonthRange(in[0], in[1])
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "month=%d year=%d", in[0], in[1])
	}
}
