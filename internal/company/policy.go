package company

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Policy bundles the engine-side view of one enterprise's configuration.
// All zero values mean "no stored config": the engine then applies its
// documented defaults.
type Policy struct {
	Salary *payroll.SalaryPolicy
	Grades []payroll.GradeRate
	Params map[string]payroll.BonusParam
}

// LoadPolicy reads the CompanyConfig of (guildID, entreprise) and converts
// it to engine types. Percentages are divided down to fractions here; the
// engine never sees the 0-100 scale.
func LoadPolicy(db *gorm.DB, guildID, entreprise string) (Policy, error) {
	var cfg models.CompanyConfig
	err := db.Where("guild_id = ? AND entreprise_id = ?", guildID, entreprise).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Policy{}, nil
	}
	if err != nil {
		return Policy{}, err
	}
	return policyFromConfig(&cfg)
}

func policyFromConfig(cfg *models.CompanyConfig) (Policy, error) {
	var out Policy

	if len(cfg.Salaire) > 0 {
		var payload models.SalaryPayload
		if err := json.Unmarshal(cfg.Salaire, &payload); err != nil {
			return Policy{}, fmt.Errorf("salaire payload: %w", err)
		}
		out.Salary = salaryPolicyFromPayload(payload)
	}

	if len(cfg.GradeRules) > 0 {
		var rules []models.GradeRule
		if err := json.Unmarshal(cfg.GradeRules, &rules); err != nil {
			return Policy{}, fmt.Errorf("gradeRules payload: %w", err)
		}
		for _, r := range rules {
			out.Grades = append(out.Grades, payroll.GradeRate{
				Grade:         r.Grade,
				PourcentageCA: decimal.NewFromFloat(r.PourcentageCA).Div(hundred),
				TauxHoraire:   decimal.NewFromFloat(r.TauxHoraire),
			})
		}
	}

	if len(cfg.Parametres) > 0 {
		var params map[string]models.CalculParam
		if err := json.Unmarshal(cfg.Parametres, &params); err != nil {
			return Policy{}, fmt.Errorf("parametres payload: %w", err)
		}
		out.Params = make(map[string]payroll.BonusParam, len(params))
		for name, p := range params {
			bp := payroll.BonusParam{Actif: p.Actif, Cumulatif: p.Cumulatif}
			for _, tier := range p.Paliers {
				bp.Paliers = append(bp.Paliers, payroll.BonusTier{
					Seuil: decimal.NewFromFloat(tier.Seuil),
					Bonus: decimal.NewFromFloat(tier.Bonus),
				})
			}
			sort.Slice(bp.Paliers, func(i, j int) bool {
				return bp.Paliers[i].Seuil.LessThan(bp.Paliers[j].Seuil)
			})
			out.Params[name] = bp
		}
	}

	return out, nil
}

func salaryPolicyFromPayload(p models.SalaryPayload) *payroll.SalaryPolicy {
	policy := &payroll.SalaryPolicy{
		PourcentageCA: decimal.NewFromFloat(p.PourcentageCA).Div(hundred),
		Modes: payroll.SalaryModes{
			CAEmploye:     p.Modes.CAEmploye,
			HeuresService: p.Modes.HeuresService,
			Additionner:   p.Modes.Additionner,
		},
		PrimeBaseActive: p.PrimeBase.Active,
		PrimeBase:       decimal.NewFromFloat(p.PrimeBase.Montant),
	}
	for _, tier := range p.PaliersPrimes {
		policy.PaliersPrimes = append(policy.PaliersPrimes, payroll.PrimeTier{
			Seuil: decimal.NewFromFloat(tier.Seuil),
			Prime: decimal.NewFromFloat(tier.Prime),
		})
	}
	sort.Slice(policy.PaliersPrimes, func(i, j int) bool {
		return policy.PaliersPrimes[i].Seuil.LessThan(policy.PaliersPrimes[j].Seuil)
	})
	return policy
}
