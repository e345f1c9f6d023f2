// Package money provides a decimal-backed monetary amount for reporting
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds to whole currency units
func (m Money) Round() Money {
	return Money{m.Decimal.Round(0)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// PercentOf returns m as a percentage of base; zero when base is zero
func (m Money) PercentOf(base Money) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return m.Decimal.Div(base.Decimal).Mul(decimal.NewFromInt(100))
}

// String returns the amount rounded to whole units without grouping
func (m Money) String() string {
	return m.Decimal.StringFixed(0)
}

// UsesIndianGrouping reports whether a currency symbol is displayed with
// lakh/crore digit grouping
func UsesIndianGrouping(symbol string) bool {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "₹", "INR", "RS", "RS.":
		return true
	}
	return false
}

// Format renders the amount in whole units with the currency symbol and
// digit grouping: 12,34,567 for rupees, 1,234,567 otherwise.
func (m Money) Format(symbol string) string {
	digits := m.Decimal.Abs().StringFixed(0)
	var grouped string
	if UsesIndianGrouping(symbol) {
		grouped = groupIndian(digits)
	} else {
		grouped = groupThousands(digits)
	}
	sign := ""
	if m.Decimal.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + symbol + grouped
}

// Compact renders large amounts in short form: lakh and crore for rupees,
// K/M/B otherwise.
func (m Money) Compact(symbol string) string {
	abs := m.Decimal.Abs()
	sign := ""
	if m.Decimal.IsNegative() {
		sign = "-"
	}

	type unit struct {
		size   int64
		suffix string
	}
	units := []unit{{1_000_000_000, "B"}, {1_000_000, "M"}, {1_000, "K"}}
	if UsesIndianGrouping(symbol) {
		units = []unit{{10_000_000, " Cr"}, {100_000, " L"}}
	}
	for _, u := range units {
		size := decimal.NewFromInt(u.size)
		if abs.GreaterThanOrEqual(size) {
			return sign + symbol + abs.Div(size).StringFixed(2) + u.suffix
		}
	}
	return sign + symbol + abs.StringFixed(0)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian keeps the last three digits together and groups the rest in pairs
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	last3 := digits[len(digits)-3:]
	rest := digits[:len(digits)-3]
	var parts []string
	for len(rest) > 2 {
		parts = append([]string{rest[len(rest)-2:]}, parts...)
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		parts = append([]string{rest}, parts...)
	}
	return strings.Join(parts, ",") + "," + last3
}
