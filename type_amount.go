package transitory

import (
	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
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
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// D is a shorthand for decimal values, mostly useful in tests and configuration.
func D[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	return newDecimal(value)
}

// Amount is a ledger amount that may be missing (empty or unparsable cell).
// A missing amount counts as zero in every sum.
type Amount struct {
	value decimal.Decimal
	set   bool
}

// A returns a present amount.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value), set: true}
}

// Missing is the missing amount.
var Missing = Amount{}

func (a Amount) IsMissing() bool  { return !a.set }
func (a Amount) IsZero() bool     { return a.value.IsZero() }
func (a Amount) IsPositive() bool { return a.value.IsPositive() }

// Decimal returns the amount value, zero when missing.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// Equal reports whether both amounts are missing or hold the same value.
func (a Amount) Equal(b Amount) bool { return a.set == b.set && a.value.Equal(b.value) }

// String returns the amount with two decimals, "" when missing.
func (a Amount) String() string {
	if !a.set {
		return ""
	}
	return a.value.StringFixed(2)
}

// MarshalJSON encodes a missing amount as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return a.value.MarshalJSON()
}

// UnmarshalJSON decodes null as a missing amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Missing
		return nil
	}
	if err := a.value.UnmarshalJSON(data); err != nil {
		return err
	}
	a.set = true
	return nil
}

// within reports whether |a - b| <= eps.
func within(a, b, eps decimal.Decimal) bool { return a.Sub(b).Abs().LessThanOrEqual(eps) }
