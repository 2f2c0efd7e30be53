// Package payroll implements the salary, prime and tax computation engine.
//
// All computation runs on shopspring decimals. Rates are fractions (0.15 =
// 15%); the HTTP layer owns the 0-100 <-> fraction conversion. Monetary
// results are rounded to 2 decimal places, half away from zero.
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrConfiguration marks bracket/policy data the engine cannot operate on.
var ErrConfiguration = errors.New("invalid bracket configuration")

// Bracket is one progressive tier. Max == nil means open-ended and is only
// valid on the last bracket of a ladder.
type Bracket struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate decimal.Decimal
}

// Round2 is the single rounding policy of the engine: 2 decimal places,
// half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ValidateBrackets checks that a ladder is non-empty, sorted by min
// ascending, non-overlapping, and open-ended only on its last bracket.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%w: empty ladder", ErrConfiguration)
	}
	for i, b := range brackets {
		if b.Max == nil && i != len(brackets)-1 {
			return fmt.Errorf("%w: open-ended bracket %d is not last", ErrConfiguration, i)
		}
		if b.Max != nil && b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("%w: bracket %d has max <= min", ErrConfiguration, i)
		}
		if b.Rate.IsNegative() {
			return fmt.Errorf("%w: bracket %d has a negative rate", ErrConfiguration, i)
		}
		if i > 0 {
			prev := brackets[i-1]
			if b.Min.LessThan(prev.Min) {
				return fmt.Errorf("%w: brackets not sorted by min", ErrConfiguration)
			}
			if prev.Max != nil && b.Min.LessThan(*prev.Max) {
				return fmt.Errorf("%w: brackets %d and %d overlap", ErrConfiguration, i-1, i)
			}
		}
	}
	return nil
}

// ResolveProgressive computes a full progressive tax: every bracket taxes
// only the slice of amount falling inside it. It never applies a single
// bracket's rate to the whole amount.
func ResolveProgressive(amount decimal.Decimal, brackets []Bracket) (decimal.Decimal, error) {
	if err := ValidateBrackets(brackets); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, b := range brackets {
		upper := amount
		if b.Max != nil && upper.GreaterThan(*b.Max) {
			upper = *b.Max
		}
		slice := upper.Sub(b.Min)
		if !slice.IsPositive() {
			continue
		}
		total = total.Add(slice.Mul(b.Rate))
	}
	return Round2(total), nil
}

// WealthTax applies the same slice algorithm over wealth tiers. A single
// open-ended tier {min: threshold, rate} yields (amount-threshold)*rate.
// No tiers means no wealth tax.
func WealthTax(amount decimal.Decimal, tiers []Bracket) (decimal.Decimal, error) {
	if len(tiers) == 0 {
		return decimal.Zero, nil
	}
	return ResolveProgressive(amount, tiers)
}

// EffectiveRate returns tax/amount as a fraction, zero for amount <= 0.
func EffectiveRate(amount, tax decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return tax.Div(amount)
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

// DefaultIncomeBrackets is the fallback income ladder used when no TaxBracket
// config exists for an enterprise or its guild: 10% below 10 000, 20% below
// 50 000, 30% above.
func DefaultIncomeBrackets() []Bracket {
	return []Bracket{
		{Min: dec(0), Max: decPtr(10000), Rate: dec(0.10)},
		{Min: dec(10000), Max: decPtr(50000), Rate: dec(0.20)},
		{Min: dec(50000), Max: nil, Rate: dec(0.30)},
	}
}

// DefaultWealthTiers is the fallback wealth ladder: 1% below 1M, 2.5% below
// 5M, 4% above.
func DefaultWealthTiers() []Bracket {
	return []Bracket{
		{Min: dec(0), Max: decPtr(1000000), Rate: dec(0.01)},
		{Min: dec(1000000), Max: decPtr(5000000), Rate: dec(0.025)},
		{Min: dec(5000000), Max: nil, Rate: dec(0.04)},
	}
}
