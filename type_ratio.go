package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ratio is a dimensionless number: an interest or discount rate, a conversion
// ratio, a liquidation preference multiple, a participation cap or an
// ownership rata.
type Ratio struct {
	value decimal.Decimal
}

func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Ratio {
	return Ratio{value: newDecimal(value)}
}

func (r Ratio) Equal(s Ratio) bool              { return r.value.Equal(s.value) }
func (r Ratio) LessThan(s Ratio) bool           { return r.value.LessThan(s.value) }
func (r Ratio) GreaterThan(s Ratio) bool        { return r.value.GreaterThan(s.value) }
func (r Ratio) Add(s Ratio) Ratio               { return Ratio{value: r.value.Add(s.value)} }
func (r Ratio) Sub(s Ratio) Ratio               { return Ratio{value: r.value.Sub(s.value)} }
func (r Ratio) Mul(s Ratio) Ratio               { return Ratio{value: r.value.Mul(s.value)} }
func (r Ratio) Div(s Ratio) Ratio               { return Ratio{value: r.value.Div(s.value)} }
func (r Ratio) IsZero() bool                    { return r.value.IsZero() }
func (r Ratio) IsNegative() bool                { return r.value.IsNegative() }
func (r Ratio) IsPositive() bool                { return r.value.IsPositive() }
func (r Ratio) GreaterThanOrEqual(s Ratio) bool { return r.value.GreaterThanOrEqual(s.value) }

// One is the neutral ratio.
var One = R(1)

// AsFloat is only meant for display and property checks.
func (r Ratio) AsFloat() float64 { return r.value.InexactFloat64() }

func (r Ratio) String() string { return r.value.String() }

// Percent formats the ratio as a percentage with two decimals.
func (r Ratio) Percent() string {
	return fmt.Sprintf("%s%%", r.value.Shift(2).StringFixed(2))
}

func (r Ratio) MarshalJSON() ([]byte, error) { return r.value.MarshalJSON() }

func (r *Ratio) UnmarshalJSON(decimalBytes []byte) error {
	return r.value.UnmarshalJSON(decimalBytes)
}
