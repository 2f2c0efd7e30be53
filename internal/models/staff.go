package models

import (
	"time"

	"gorm.io/datatypes"
)

// StaffConfig is the guild-wide staff salary grid: CA ranges mapped to
// salary and prime ranges for employees and patrons. Independent of the
// per-enterprise CompanyConfig.
type StaffConfig struct {
	ID      uint           `gorm:"primaryKey" json:"-"`
	GuildID string         `gorm:"size:32;uniqueIndex;not null" json:"guild_id"`
	Paliers datatypes.JSON `json:"paliers"` // []StaffPalier

	UpdatedAt time.Time `json:"updated_at"`
}

type StaffPalier struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Taux float64 `json:"taux"`

	SalMinEmp float64 `json:"sal_min_emp"`
	SalMaxEmp float64 `json:"sal_max_emp"`
	SalMinPat float64 `json:"sal_min_pat"`
	SalMaxPat float64 `json:"sal_max_pat"`

	PrMinEmp float64 `json:"pr_min_emp"`
	PrMaxEmp float64 `json:"pr_max_emp"`
	PrMinPat float64 `json:"pr_min_pat"`
	PrMaxPat float64 `json:"pr_max_pat"`
}

// DefaultStaffPaliers is the historical staff grid used when a guild has
// never saved one.
func DefaultStaffPaliers() []StaffPalier {
	return []StaffPalier{
		{
			Min: 0, Max: 50000, Taux: 15,
			SalMinEmp: 2500, SalMaxEmp: 3500, SalMinPat: 4000, SalMaxPat: 5500,
			PrMinEmp: 500, PrMaxEmp: 1000, PrMinPat: 1000, PrMaxPat: 2000,
		},
		{
			Min: 50001, Max: 100000, Taux: 25,
			SalMinEmp: 3500, SalMaxEmp: 5000, SalMinPat: 5500, SalMaxPat: 7500,
			PrMinEmp: 1000, PrMaxEmp: 2000, PrMinPat: 2000, PrMaxPat: 3500,
		},
	}
}
