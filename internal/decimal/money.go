// Package decimal formats and parses the fixed-point numbers of the invoice document.
package decimal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

const (
	// AmountPlaces is used for monetary amounts
	AmountPlaces = 2
	// PricePlaces is used for unit prices and quantities
	PricePlaces = 4
	// PercentPlaces is used for tax rates
	PercentPlaces = 2
)

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Ptr returns a pointer to a parsed constant, panics on error. Meant for literals in tests and fixtures.
func Ptr(s string) *decimal.Decimal {
	d := MustFromString(s)
	return &d
}

// Parse reads a document number. Only '.' is accepted as decimal separator.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("empty number")
	}
	if strings.ContainsAny(s, ",eE") {
		return Zero, fmt.Errorf("invalid number %q", s)
	}
	return decimal.NewFromString(s)
}

// FormatAmount renders a monetary amount with two decimals
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// FormatPrice renders a unit price or quantity with four decimals
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(PricePlaces)
}

// FormatQuantity renders a quantity with four decimals
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(PricePlaces)
}

// FormatPercent renders a tax rate with two decimals
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(PercentPlaces)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// Equal compares two optional decimals by value
func Equal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
