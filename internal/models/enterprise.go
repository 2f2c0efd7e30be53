package models

import "time"

// Entreprise is one registered enterprise of a guild. Key is the stable
// identifier used in configs and queries; Name is the display label.
type Entreprise struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	GuildID string `gorm:"size:32;uniqueIndex:idx_entreprise_guild_key;not null" json:"guild_id"`
	Key     string `gorm:"size:100;uniqueIndex:idx_entreprise_guild_key;not null" json:"key"`

	Name        string `gorm:"size:100;not null" json:"name"`
	RoleDiscord string `gorm:"size:100" json:"role_discord"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
