package captable

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value: a cash amount, a valuation or a price per share.
type Money struct {
	value      decimal.Decimal // as major unit value
	cur        string
	fractional bool // true to persist in full digits
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
// Prices per share are fractional and keep all their digits.
func (m Money) String() string {
	cur := m.currency()
	if m.fractional {
		return cur.Grapheme + m.value.StringFixed(4)
	}
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Simple wrapper around money.Money

func (m Money) Currency() string                { return m.cur }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }

// Mul returns the amount for n shares at price m.
func (m Money) Mul(n Quantity) Money { return Money{value: m.value.Mul(n.value), cur: m.cur} }

// Div returns the price per share when m is spread over n shares.
func (m Money) Div(n Quantity) Money { return Money{value: m.value.Div(n.value), cur: m.cur, fractional: true} }

// DivPrice returns the number of shares m buys at price n.
func (m Money) DivPrice(n Money) Quantity { return Quantity{value: m.value.Div(n.value)} }

// Scale multiplies the amount by a ratio (interest, preference multiple...).
func (m Money) Scale(r Ratio) Money { return Money{value: m.value.Mul(r.value), cur: m.cur} }

// DivRatio divides the amount by a ratio.
func (m Money) DivRatio(r Ratio) Money { return Money{value: m.value.Div(r.value), cur: m.cur} }

// Rata returns the fraction m/n.
func (m Money) Rata(n Money) Ratio { return Ratio{value: m.value.Div(n.value)} }

// Round returns the amount rounded to places decimals.
func (m Money) Round(places int32) Money {
	return Money{value: m.value.Round(places), cur: m.cur, fractional: m.fractional}
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Max returns the larger of m and n.
func (m Money) Max(n Money) Money {
	if n.GreaterThan(m) {
		return n
	}
	return m
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// AsFloat is only meant for display and property checks, calculations stay exact.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// exact return a copy of money that will be persisted with all the digits.
func (m Money) exact() Money {
	m.fractional = true
	return m
}

// in returns a copy of money in the currency cur, amounts are not converted.
func (m Money) in(cur string) Money {
	m.cur = cur
	return m
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	rounded := m.value // prices per share keep their digits
	if !m.fractional {
		rounded = m.value.Round(int32(m.currency().Fraction))
	}
	w.Append("amount", rounded)
	return w.MarshalJSON()
}
