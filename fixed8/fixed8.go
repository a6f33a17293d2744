// Package fixed8 implements the scaled-integer amount type used for every
// asset value on the ledger. One whole unit of an asset is 10^8 Fixed8
// units; all balance, selection and change arithmetic is done on int64.
package fixed8

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits carried by a Fixed8 value.
const Decimals = 8

// Unit is the Fixed8 representation of one whole asset unit.
const Unit Fixed8 = 100000000

var (
	maxDecimal = decimal.NewFromInt(math.MaxInt64)
	minDecimal = decimal.NewFromInt(math.MinInt64)
)

// Fixed8 is an asset amount scaled by 10^8.
type Fixed8 int64

// FromDecimal scales d by 10^8 and rounds half away from zero.
func FromDecimal(d decimal.Decimal) (Fixed8, error) {
	scaled := d.Shift(Decimals).Round(0)
	if scaled.GreaterThan(maxDecimal) || scaled.LessThan(minDecimal) {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return Fixed8(scaled.IntPart()), nil
}

// Parse converts a human-entered decimal string such as "1.5" to Fixed8.
func Parse(s string) (Fixed8, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Fixed8 {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FromFloat converts a float amount. The float is first rendered with its
// shortest exact decimal representation so 0.1 becomes 10000000, not 9999999.
func FromFloat(v float64) (Fixed8, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
	}
	return FromDecimal(decimal.NewFromFloat(v))
}

// Decimal returns the amount in whole asset units.
func (f Fixed8) Decimal() decimal.Decimal {
	return decimal.New(int64(f), -Decimals)
}

// Float64 returns the amount in whole asset units as a float.
func (f Fixed8) Float64() float64 {
	v, _ := f.Decimal().Float64()
	return v
}

// String renders the amount in whole asset units without trailing zeros.
func (f Fixed8) String() string {
	return f.Decimal().String()
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (f Fixed8) MarshalJSON() ([]byte, error) {
	return f.Decimal().MarshalJSON()
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string in whole units.
func (f *Fixed8) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
