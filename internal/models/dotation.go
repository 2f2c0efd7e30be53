package models

import "time"

// DotationBatch is the single live payroll report of one enterprise. Every
// save replaces its row set wholesale; history lives in ArchiveEntry.
type DotationBatch struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	GuildID    string `gorm:"size:32;uniqueIndex:idx_dotation_guild_entreprise;not null" json:"guild_id"`
	Entreprise string `gorm:"size:100;uniqueIndex:idx_dotation_guild_entreprise;not null" json:"entreprise"`

	SoldeActuel   float64 `gorm:"not null;default:0" json:"solde_actuel"`
	Expenses      float64 `gorm:"not null;default:0" json:"expenses"`
	Withdrawals   float64 `gorm:"not null;default:0" json:"withdrawals"`
	Commissions   float64 `gorm:"not null;default:0" json:"commissions"`
	InterInvoices float64 `gorm:"not null;default:0" json:"inter_invoices"`

	Rows []DotationRow `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"rows"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DotationRow is one employee line. Derived fields (CATotal, Salaire, Prime)
// are recomputed server-side on every save, never trusted from the client.
type DotationRow struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	BatchID uint `gorm:"index;not null" json:"-"`

	Name    string  `gorm:"size:100;not null" json:"name"`
	Run     float64 `gorm:"not null;default:0" json:"run"`
	Facture float64 `gorm:"not null;default:0" json:"facture"`
	Vente   float64 `gorm:"not null;default:0" json:"vente"`
	CATotal float64 `gorm:"not null;default:0" json:"ca_total"`
	Salaire float64 `gorm:"not null;default:0" json:"salaire"`
	Prime   float64 `gorm:"not null;default:0" json:"prime"`
}
