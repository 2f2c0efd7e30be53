package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaxBracket stores the income and wealth ladders of one enterprise. An
// empty Entreprise means guild-wide default. Ladders are JSON arrays of
// BracketPayload / WealthPayload, sorted by min ascending.
type TaxBracket struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	GuildID    string `gorm:"size:32;uniqueIndex:idx_tax_guild_entreprise;not null" json:"guild_id"`
	Entreprise string `gorm:"size:100;uniqueIndex:idx_tax_guild_entreprise" json:"entreprise"`

	Brackets datatypes.JSON `json:"brackets"` // []BracketPayload
	Wealth   datatypes.JSON `json:"wealth"`   // []WealthPayload

	UpdatedAt time.Time `json:"updated_at"`
}

// BracketPayload is the wire/storage form of a progressive bracket. Taux is
// on the 0-100 scale; a null max means open-ended (last bracket only).
type BracketPayload struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max"`
	Taux float64  `json:"taux"`
}

type WealthPayload struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max"`
	Taux float64  `json:"taux"`
}
