package models

import (
	"time"

	"gorm.io/datatypes"
)

// CompanyConfig holds the per-enterprise settings blob. The JSON columns
// carry the payload types below; readers unmarshal only the sections they
// need.
type CompanyConfig struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	GuildID      string `gorm:"size:32;uniqueIndex:idx_company_guild_entreprise;not null" json:"guild_id"`
	EntrepriseID string `gorm:"size:100;uniqueIndex:idx_company_guild_entreprise" json:"entreprise_id"`

	Identification datatypes.JSON `json:"identification"` // IdentificationPayload
	Salaire        datatypes.JSON `json:"salaire"`        // SalaryPayload
	Parametres     datatypes.JSON `json:"parametres"`     // map[string]CalculParam
	GradeRules     datatypes.JSON `json:"gradeRules"`     // []GradeRule
	ErrorTiers     datatypes.JSON `json:"errorTiers"`     // []TierPayload
	Employees      datatypes.JSON `json:"employees"`      // []EmployeePayload
	RoleDiscord    string         `gorm:"size:100" json:"roleDiscord"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

type IdentificationPayload struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// SalaryModesPayload flags which base computation applies. additionner is
// accepted and stored but has no engine effect.
type SalaryModesPayload struct {
	CAEmploye     bool `json:"caEmploye"`
	HeuresService bool `json:"heuresService"`
	Additionner   bool `json:"additionner"`
}

type PrimeBasePayload struct {
	Active  bool    `json:"active"`
	Montant float64 `json:"montant"`
}

type PrimeTierPayload struct {
	Seuil float64 `json:"seuil"`
	Prime float64 `json:"prime"`
}

// SalaryPayload is the wire form of the salary rules. PourcentageCA is on
// the 0-100 scale.
type SalaryPayload struct {
	PourcentageCA float64            `json:"pourcentageCA"`
	Modes         SalaryModesPayload `json:"modes"`
	PrimeBase     PrimeBasePayload   `json:"primeBase"`
	PaliersPrimes []PrimeTierPayload `json:"paliersPrimes"`
}

func DefaultSalaryPayload() SalaryPayload {
	return SalaryPayload{
		PourcentageCA: 5,
		Modes:         SalaryModesPayload{CAEmploye: true},
	}
}

type TierPayload struct {
	Seuil float64 `json:"seuil"`
	Bonus float64 `json:"bonus"`
}

// CalculParam is one named bonus parameter. Cumulatif sums every reached
// tier; otherwise only the highest reached tier pays.
type CalculParam struct {
	Actif     bool          `json:"actif"`
	Cumulatif bool          `json:"cumulatif"`
	Paliers   []TierPayload `json:"paliers"`
}

type GradeRule struct {
	Grade         string  `json:"grade"`
	PourcentageCA float64 `json:"pourcentageCA"`
	TauxHoraire   float64 `json:"tauxHoraire"`
}

type EmployeePayload struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}
