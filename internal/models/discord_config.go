package models

import (
	"time"

	"gorm.io/datatypes"
)

// DiscordConfig is the single-row superadmin role mapping (principal guild,
// role ids per enterprise, DOT guild, superadmin user ids). Stored opaque:
// the backend never interprets it beyond handing it to the frontend.
type DiscordConfig struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Payload   datatypes.JSON `json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}
