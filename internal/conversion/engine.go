// Package conversion computes amounts between currencies over a RateTable.
// Everything here is pure: no I/O, no shared state.
package conversion

import (
	"math"
	"strings"

	"fxconvert/internal/domain"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimals every converted amount is rounded to.
const DisplayPlaces = 2

// Result is the outcome of converting into a single target currency.
type Result struct {
	Value float64
	Err   error
}

// Convert converts amount from one currency into another using rates relative to
// table.Base. The result is rounded to DisplayPlaces; intermediate values are not.
func Convert(amount float64, from, to string, table domain.RateTable) (float64, error) {
	if !isPositiveFinite(amount) {
		return 0, domain.ErrInvalidInput
	}
	v, err := convert(decimal.NewFromFloat(amount), from, to, table)
	if err != nil {
		return 0, err
	}
	return v.Round(DisplayPlaces).InexactFloat64(), nil
}

// ConvertToAll converts amount into every target independently. A missing rate for
// one target never affects the others.
func ConvertToAll(amount float64, from string, targets []string, table domain.RateTable) map[string]Result {
	out := make(map[string]Result, len(targets))
	for _, to := range targets {
		v, err := Convert(amount, from, to, table)
		out[to] = Result{Value: v, Err: err}
	}
	return out
}

func convert(amount decimal.Decimal, from, to string, table domain.RateTable) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	switch {
	case from == table.Base:
		rTo, ok := table.Rate(to)
		if !ok {
			return decimal.Zero, &domain.RateNotFoundError{Currency: to}
		}
		return amount.Mul(decimal.NewFromFloat(rTo)), nil
	case to == table.Base:
		rFrom, ok := table.Rate(from)
		if !ok {
			return decimal.Zero, &domain.RateNotFoundError{Currency: from}
		}
		return amount.Div(decimal.NewFromFloat(rFrom)), nil
	}

	rFrom, ok := table.Rate(from)
	if !ok {
		return decimal.Zero, &domain.RateNotFoundError{Currency: from}
	}
	rTo, ok := table.Rate(to)
	if !ok {
		return decimal.Zero, &domain.RateNotFoundError{Currency: to}
	}
	cross := decimal.NewFromFloat(rTo).Div(decimal.NewFromFloat(rFrom))
	return amount.Mul(cross), nil
}

// ParseAmount parses user input. Empty, non-numeric and non-positive values all
// yield domain.ErrInvalidInput, which callers treat as "clear derived fields".
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidInput
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return 0, domain.ErrInvalidInput
	}
	v := d.InexactFloat64()
	if !isPositiveFinite(v) {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}

// Format renders v with exactly DisplayPlaces decimals.
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(DisplayPlaces)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
