package models

import "time"

const (
	ArchiveStatutEnAttente = "En attente"
	ArchiveStatutValide    = "Validé"

	ArchiveTypeDotation = "Dotation"
)

// ArchiveEntry is one row of the flat append-only history. Entries are only
// ever created; the statut field is set once by the writer.
type ArchiveEntry struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	GuildID string `gorm:"size:32;index;not null" json:"guild_id"`

	Date       string  `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	Type       string  `gorm:"size:50;not null" json:"type"`
	Employe    *string `gorm:"size:100" json:"employe"`
	Entreprise *string `gorm:"size:100;index" json:"entreprise"`
	Montant    float64 `gorm:"not null;default:0" json:"montant"`
	Statut     string  `gorm:"size:50;not null" json:"statut"`

	CreatedAt time.Time `json:"created_at"`
}
