package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

// INR is the only currency bills are priced in
const INR Currency = "INR"

// Money is an immutable monetary amount in a currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoneyINR creates rupee Money
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

// Symbol returns the printed currency sign, falling back to the code
func (m Money) Symbol() string {
	if m.currency == INR {
		return "₹"
	}
	return string(m.currency)
}

// Grouped formats the amount with two decimals and Indian digit grouping (12,34,567.00)
func (m Money) Grouped() string {
	s := m.amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if m.amount.IsNegative() {
		b.WriteByte('-')
	}
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		for i, c := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(c)
		}
		b.WriteByte(',')
		intPart = intPart[len(intPart)-3:]
	}
	b.WriteString(intPart)
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Format returns the symbol followed by the grouped amount (₹1,23,456.00)
func (m Money) Format() string {
	return m.Symbol() + m.Grouped()
}
