// Package money provides an exact fixed-point amount type for prices and
// budgets.
//
// Amounts are stored as an integer number of minor units (öre, cents), so
// they can be used directly as indexes by the optimizer. Parsing and
// formatting go through shopspring/decimal to avoid binary floating point:
//
//	price, err := money.Parse("49.90") // 4990 minor units
//	fmt.Println(price)                  // 49.90
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept in minor units.
const Scale = 2

var (
	// ErrTooPrecise is returned when a value has more decimals than Scale.
	ErrTooPrecise = errors.New("amount has more than two decimals")
	// ErrOutOfRange is returned when a value does not fit in minor units.
	ErrOutOfRange = errors.New("amount out of range")
)

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Amount is a monetary value in minor units.
type Amount int64

// FromUnits returns an amount of whole major units (kronor, dollars).
func FromUnits(units int64) Amount {
	return Amount(units * 100)
}

// Parse converts a decimal string like "29", "49.9" or "49.90" into an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts d into minor units, rejecting fractions of a minor unit.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	shifted := d.Shift(Scale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	if shifted.LessThan(minMinor) || shifted.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return Amount(shifted.IntPart()), nil
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String formats the amount with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Short formats whole amounts without decimals ("986") and others with two
// ("998.50"), the way receipts print kronor.
func (a Amount) Short() string {
	if a%100 == 0 {
		return a.Decimal().StringFixed(0)
	}
	return a.String()
}

// MarshalText encodes the amount as a decimal string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a decimal string.
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UnmarshalJSON accepts both JSON numbers and strings. Numbers are read
// from their literal text, never through float64.
func (a *Amount) UnmarshalJSON(data []byte) error {
	text := string(data)
	if text == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	return a.UnmarshalText([]byte(text))
}

// Mul returns a multiplied by n.
func (a Amount) Mul(n int) Amount {
	return a * Amount(n)
}
