package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func hours(v float64) decimal.Decimal { return dec(v) }

func TestComputeSalaryDefaults(t *testing.T) {
	// No stored configuration: 5% of CA, no prime, no bonus.
	res := ComputeSalary(RevenueRow{Run: dec(1000), Facture: dec(500), Vente: dec(500)},
		hours(DefaultHoursWorked), nil, nil, nil, "")

	assert.True(t, res.CATotal.Equal(dec(2000)))
	assert.True(t, res.Base.Equal(dec(100)))
	assert.True(t, res.Prime.IsZero())
	assert.True(t, res.Bonus.IsZero())
	assert.True(t, res.Total.Equal(dec(100)))
}

func TestComputeSalaryCATotalNeverTrusted(t *testing.T) {
	// ca_total is derived from the three components, whatever the caller sent.
	res := ComputeSalary(RevenueRow{Run: dec(100), Facture: dec(200), Vente: dec(300)},
		hours(40), nil, nil, nil, "")
	assert.True(t, res.CATotal.Equal(dec(600)))
}

func TestComputeSalaryPrimeTiers(t *testing.T) {
	policy := &SalaryPolicy{
		PourcentageCA: dec(0.05),
		Modes:         SalaryModes{CAEmploye: true},
		PaliersPrimes: []PrimeTier{
			{Seuil: dec(0), Prime: dec(0)},
			{Seuil: dec(1000), Prime: dec(100)},
			{Seuil: dec(5000), Prime: dec(500)},
		},
	}

	tests := []struct {
		ca   float64
		want float64
	}{
		{999, 0},
		{1000, 100},
		{4999, 100},
		{5000, 500},
		{50000, 500},
	}
	for _, tt := range tests {
		res := ComputeSalary(RevenueRow{Run: dec(tt.ca)}, hours(40), policy, nil, nil, "")
		assert.True(t, res.Prime.Equal(dec(tt.want)),
			"ca %v: prime %s, want %v", tt.ca, res.Prime, tt.want)
	}
}

func TestComputeSalaryPrimeBaseOverwrittenByTier(t *testing.T) {
	policy := &SalaryPolicy{
		Modes:           SalaryModes{CAEmploye: true},
		PourcentageCA:   dec(0.05),
		PrimeBaseActive: true,
		PrimeBase:       dec(50),
		PaliersPrimes:   []PrimeTier{{Seuil: dec(1000), Prime: dec(100)}},
	}

	// Below every tier: the base amount stands.
	res := ComputeSalary(RevenueRow{Run: dec(500)}, hours(40), policy, nil, nil, "")
	assert.True(t, res.Prime.Equal(dec(50)))

	// A qualifying tier replaces the base amount, it does not add to it.
	res = ComputeSalary(RevenueRow{Run: dec(2000)}, hours(40), policy, nil, nil, "")
	assert.True(t, res.Prime.Equal(dec(100)))
}

func TestComputeSalaryHourlyMode(t *testing.T) {
	policy := &SalaryPolicy{
		PourcentageCA: dec(0.10),
		Modes:         SalaryModes{CAEmploye: true, HeuresService: true},
	}
	grades := []GradeRate{{Grade: "Cadre", TauxHoraire: dec(25)}}

	// Both enabled modes are additive: 1000*0.10 + 40*25.
	res := ComputeSalary(RevenueRow{Run: dec(1000)}, hours(40), policy, grades, nil, "Cadre")
	assert.True(t, res.Base.Equal(dec(1100)), "got %s", res.Base)

	// Unknown grade falls back to the default hourly rate.
	res = ComputeSalary(RevenueRow{Run: dec(1000)}, hours(40), policy, grades, nil, "Novice")
	assert.True(t, res.Base.Equal(dec(100+40*DefaultHourlyRate)), "got %s", res.Base)

	// No grade at all: same fallback.
	res = ComputeSalary(RevenueRow{Run: dec(1000)}, hours(40), policy, grades, nil, "")
	assert.True(t, res.Base.Equal(dec(100+40*DefaultHourlyRate)))
}

func TestComputeSalaryParametricBonuses(t *testing.T) {
	policy := DefaultPolicy()
	params := map[string]BonusParam{
		"anciennete": {
			Actif:     true,
			Cumulatif: true,
			Paliers: []BonusTier{
				{Seuil: dec(0), Bonus: dec(10)},
				{Seuil: dec(1000), Bonus: dec(20)},
			},
		},
		"rendement": {
			Actif: true,
			Paliers: []BonusTier{
				{Seuil: dec(0), Bonus: dec(5)},
				{Seuil: dec(1000), Bonus: dec(50)},
			},
		},
		"inactif": {
			Actif:   false,
			Paliers: []BonusTier{{Seuil: dec(0), Bonus: dec(999)}},
		},
	}

	// anciennete cumulates (10+20), rendement keeps the highest tier (50),
	// disabled params contribute nothing.
	res := ComputeSalary(RevenueRow{Run: dec(2000)}, hours(40), policy, nil, params, "")
	assert.True(t, res.Bonus.Equal(dec(80)), "got %s", res.Bonus)

	// Malus tiers subtract.
	params = map[string]BonusParam{
		"erreurs": {Actif: true, Paliers: []BonusTier{{Seuil: dec(0), Bonus: dec(-30)}}},
	}
	res = ComputeSalary(RevenueRow{Run: dec(2000)}, hours(40), policy, nil, params, "")
	assert.True(t, res.Bonus.Equal(dec(-30)))
}

func TestComputeSalaryTotal(t *testing.T) {
	policy := &SalaryPolicy{
		PourcentageCA:   dec(0.10),
		Modes:           SalaryModes{CAEmploye: true},
		PrimeBaseActive: true,
		PrimeBase:       dec(25),
	}
	params := map[string]BonusParam{
		"zele": {Actif: true, Paliers: []BonusTier{{Seuil: dec(100), Bonus: dec(15)}}},
	}
	res := ComputeSalary(RevenueRow{Run: dec(1000)}, hours(40), policy, nil, params, "")
	assert.True(t, res.Total.Equal(dec(140)), "got %s", res.Total) // 100 + 25 + 15
}

func TestComputeSalaryRounding(t *testing.T) {
	// 333.33 * 5% = 16.6665 -> 16.67 (half away from zero)
	policy := DefaultPolicy()
	res := ComputeSalary(RevenueRow{Run: dec(333.33)}, hours(40), policy, nil, nil, "")
	assert.True(t, res.Base.Equal(dec(16.67)), "got %s", res.Base)
}
