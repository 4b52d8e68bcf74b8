package conv

import (
	"strconv"

	"github.com/ericlagergren/decimal"
)

var zeroRounded decimal.Big

func init() {
	zeroRounded = decimal.Big{}
	zeroRounded.Context = decimal.Context128
	zeroRounded.Context.RoundingMode = decimal.ToZero
	zeroRounded.Quantize(8)
}

// NewDecimalWithPrecision returns a zero decimal configured with the precision
// used for every money amount in the system
func NewDecimalWithPrecision() *decimal.Big {
	z := zeroRounded
	return &z
}

// CloneToPrecision copies the given amount into a new decimal truncated to the
// system precision
func CloneToPrecision(amount *decimal.Big) *decimal.Big {
	dec := &decimal.Big{}
	dec.Context = decimal.Context128
	dec.Context.RoundingMode = decimal.ToZero
	dec.Copy(amount)
	dec.Quantize(8)
	return dec
}

// RoundToPrecision truncates the given amount in place to the system precision
func RoundToPrecision(amount *decimal.Big) *decimal.Big {
	amount.Context = decimal.Context128
	amount.Context.RoundingMode = decimal.ToZero
	amount.Quantize(8)

	return amount
}

// FromFloat converts a configuration float through its shortest decimal
// representation, so a configured rate of 0.12 becomes exactly 0.12 and not
// the binary expansion of the float
func FromFloat(value float64) *decimal.Big {
	amount, ok := NewDecimalWithPrecision().SetString(strconv.FormatFloat(value, 'f', -1, 64))
	if !ok {
		return NewDecimalWithPrecision()
	}
	return amount
}

// FloorUnits divides amount by unitPrice and truncates the result to a whole
// number of units. The fractional remainder is discarded by policy, it is
// never carried forward.
func FloorUnits(amount, unitPrice *decimal.Big) int64 {
	if unitPrice == nil || unitPrice.Sign() <= 0 {
		return 0
	}
	q := NewDecimalWithPrecision().QuoInt(amount, unitPrice)
	units, ok := q.Int64()
	if !ok {
		return 0
	}
	return units
}

// Zero reports whether the amount is nil or equal to zero
func Zero(amount *decimal.Big) bool {
	return amount == nil || amount.Sign() == 0
}
