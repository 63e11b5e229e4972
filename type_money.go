package trinity

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in the reporting currency.
// Arithmetic is exact decimal; formatting is currency-aware.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// USD is the reporting currency of the simulation.
const USD = "USD"

func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// M is a convenient factory for Money in the reporting currency.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value), cur: USD}
}

// currency returns the money's currency, never nil.
func (m Money) currency() money.Currency {
	cur := m.cur
	if cur == "" {
		cur = USD
	}
	return *money.New(0, cur).Currency()
}

// String returns the currency-formatted representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) GreaterThan(n Money) bool { return m.value.GreaterThan(n.value) }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// MulShares scales a per-share amount by a share count.
func (m Money) MulShares(shares int64) Money {
	return Money{value: m.value.Mul(decimal.NewFromInt(shares)), cur: m.cur}
}

// MulPercent returns the given fraction of the amount.
func (m Money) MulPercent(p Percent) Money {
	return Money{value: m.value.Mul(decimal.NewFromFloat(float64(p))), cur: m.cur}
}

// FloorDiv returns how many whole shares at the given price the amount buys.
// Fractional shares are never held, so the result is always rounded down.
func (m Money) FloorDiv(price Money) int64 {
	if price.value.IsZero() {
		return 0
	}
	return m.value.Div(price.value).Floor().IntPart()
}

// AsFloat returns an inexact float64 view of the amount, for reporting only.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// Decimal exposes the exact decimal value, for persistence.
func (m Money) Decimal() decimal.Decimal { return m.value }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	return a.cur
}
