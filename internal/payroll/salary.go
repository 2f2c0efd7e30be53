package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// DefaultHourlyRate applies when heuresService is on but the employee's
	// grade has no rule.
	DefaultHourlyRate = 15
	// DefaultHoursWorked is assumed for dotation rows, which carry no hours.
	DefaultHoursWorked = 40
)

// SalaryModes are the calculation switches of a salary policy. Additionner
// is accepted for config compatibility but does not change the computation:
// both enabled terms are always additive.
type SalaryModes struct {
	CAEmploye     bool
	HeuresService bool
	Additionner   bool
}

// PrimeTier maps a CA threshold to a fixed prime amount.
type PrimeTier struct {
	Seuil decimal.Decimal
	Prime decimal.Decimal
}

// BonusTier maps a CA threshold to a bonus (or malus, when negative).
type BonusTier struct {
	Seuil decimal.Decimal
	Bonus decimal.Decimal
}

// BonusParam is a named parametric bonus rule.
type BonusParam struct {
	Actif     bool
	Cumulatif bool
	Paliers   []BonusTier
}

// GradeRate carries the per-grade hourly rate and CA percentage.
type GradeRate struct {
	Grade         string
	PourcentageCA decimal.Decimal
	TauxHoraire   decimal.Decimal
}

// SalaryPolicy is the engine-side view of a company salary configuration.
// PourcentageCA is a fraction.
type SalaryPolicy struct {
	PourcentageCA   decimal.Decimal
	Modes           SalaryModes
	PrimeBaseActive bool
	PrimeBase       decimal.Decimal
	PaliersPrimes   []PrimeTier
}

// DefaultPolicy is used when an enterprise has no stored configuration:
// 5% of CA, no primes.
func DefaultPolicy() *SalaryPolicy {
	return &SalaryPolicy{
		PourcentageCA: dec(0.05),
		Modes:         SalaryModes{CAEmploye: true},
	}
}

// RevenueRow holds the three raw revenue components of one employee.
type RevenueRow struct {
	Run     decimal.Decimal
	Facture decimal.Decimal
	Vente   decimal.Decimal
}

// CATotal is always run + facture + vente. Caller-supplied totals are never
// trusted.
func (r RevenueRow) CATotal() decimal.Decimal {
	return r.Run.Add(r.Facture).Add(r.Vente)
}

// SalaryResult is one employee's computed compensation, all fields rounded
// to 2 places.
type SalaryResult struct {
	CATotal decimal.Decimal
	Base    decimal.Decimal
	Prime   decimal.Decimal
	Bonus   decimal.Decimal
	Total   decimal.Decimal
}

// ComputeSalary computes base salary, prime and parametric bonuses for one
// revenue row. A nil policy falls back to DefaultPolicy.
//
// Prime tiers use highest-qualifying-tier-wins: tiers are scanned by
// descending threshold and the first tier with seuil <= CA replaces any
// prime base amount.
func ComputeSalary(row RevenueRow, hours decimal.Decimal, policy *SalaryPolicy, grades []GradeRate, params map[string]BonusParam, grade string) SalaryResult {
	if policy == nil {
		policy = DefaultPolicy()
	}
	ca := row.CATotal()

	base := decimal.Zero
	if policy.Modes.CAEmploye {
		base = base.Add(ca.Mul(policy.PourcentageCA))
	}
	if policy.Modes.HeuresService {
		rate := decimal.NewFromInt(DefaultHourlyRate)
		if grade != "" {
			for _, g := range grades {
				if g.Grade == grade {
					rate = g.TauxHoraire
					break
				}
			}
		}
		base = base.Add(hours.Mul(rate))
	}

	prime := decimal.Zero
	if policy.PrimeBaseActive {
		prime = policy.PrimeBase
	}
	for i := len(policy.PaliersPrimes) - 1; i >= 0; i-- {
		if ca.GreaterThanOrEqual(policy.PaliersPrimes[i].Seuil) {
			prime = policy.PaliersPrimes[i].Prime
			break
		}
	}

	bonus := totalBonus(ca, params)

	base = Round2(base)
	prime = Round2(prime)
	bonus = Round2(bonus)
	return SalaryResult{
		CATotal: Round2(ca),
		Base:    base,
		Prime:   prime,
		Bonus:   bonus,
		Total:   base.Add(prime).Add(bonus),
	}
}

// totalBonus sums the per-parameter bonuses. Within one parameter, tiers are
// cumulative when cumulatif is set, otherwise highest-qualifying-tier-wins.
// Parameters are walked in name order so the result does not depend on map
// iteration.
func totalBonus(ca decimal.Decimal, params map[string]BonusParam) decimal.Decimal {
	if len(params) == 0 {
		return decimal.Zero
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	total := decimal.Zero
	for _, name := range names {
		p := params[name]
		if !p.Actif {
			continue
		}
		val := decimal.Zero
		if p.Cumulatif {
			for _, tier := range p.Paliers {
				if ca.GreaterThanOrEqual(tier.Seuil) {
					val = val.Add(tier.Bonus)
				}
			}
		} else {
			for i := len(p.Paliers) - 1; i >= 0; i-- {
				if ca.GreaterThanOrEqual(p.Paliers[i].Seuil) {
					val = p.Paliers[i].Bonus
					break
				}
			}
		}
		total = total.Add(val)
	}
	return total
}
