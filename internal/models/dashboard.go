package models

import "time"

// DashboardSummary is a materialized view of one enterprise's KPIs,
// overwritten wholesale on each recomputation. Never a source of truth.
type DashboardSummary struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	GuildID    string `gorm:"size:32;uniqueIndex:idx_summary_guild_entreprise;not null" json:"guild_id"`
	Entreprise string `gorm:"size:100;uniqueIndex:idx_summary_guild_entreprise;not null" json:"entreprise"`

	CABrut              float64 `gorm:"not null;default:0" json:"ca_brut"`
	Depenses            float64 `gorm:"not null;default:0" json:"depenses"`
	DepensesDeductibles float64 `gorm:"not null;default:0" json:"depenses_deductibles"`
	Benefice            float64 `gorm:"not null;default:0" json:"benefice"`
	TauxImposition      float64 `gorm:"not null;default:0" json:"taux_imposition"` // 0-100
	MontantImpots       float64 `gorm:"not null;default:0" json:"montant_impots"`
	EmployeeCount       int     `gorm:"not null;default:0" json:"employee_count"`

	UpdatedAt time.Time `json:"updated_at"`
}
