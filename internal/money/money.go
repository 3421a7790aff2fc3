package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMoney = errors.New("invalid money amount")
)

// Scale is the number of fractional digits kept for stored amounts.
const Scale = 2

// Max is the largest amount a NUMERIC(14,2) column accepts.
var Max = decimal.RequireFromString("999999999999.99")

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Normalize validates a user-entered amount and rounds it to Scale digits.
// Amounts are strictly positive; the transaction type carries the sign.
func Normalize(d decimal.Decimal) (decimal.Decimal, error) {
	r := d.Round(Scale)
	if !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be greater than zero", ErrInvalidMoney)
	}
	if r.GreaterThan(Max) {
		return decimal.Zero, fmt.Errorf("%w: too large", ErrInvalidMoney)
	}
	return r, nil
}

// Parse reads a decimal amount, accepting a comma as decimal separator.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidMoney, s)
	}
	return Normalize(d)
}

// Number renders d as a bare JSON number regardless of decimal's
// package-level quoting switch.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Format renders an amount with exactly two decimals, e.g. "-1200.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
