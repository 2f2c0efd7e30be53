package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role is the access level resolved from a member's Discord roles.
type Role string

const (
	RoleStaff    Role = "staff"
	RolePatron   Role = "patron"
	RoleCoPatron Role = "co-patron"
	RoleDot      Role = "dot"
	RoleEmploye  Role = "employe"
	RoleNone     Role = "none"
)

type User struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	DiscordID     string    `gorm:"size:32;uniqueIndex;not null" json:"discord_id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Avatar        *string   `gorm:"size:64" json:"avatar"`
	Discriminator *string   `gorm:"size:8" json:"discriminator"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

type Guild struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	DiscordGuildID string    `gorm:"size:32;uniqueIndex;not null" json:"discord_guild_id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Icon           *string   `gorm:"size:64" json:"icon"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

// UserGuildRole is the synced snapshot of a member's role names in one
// guild. Roles is a JSON array of role name strings.
type UserGuildRole struct {
	ID         uint           `gorm:"primaryKey" json:"-"`
	DiscordID  string         `gorm:"size:32;uniqueIndex:idx_user_guild;not null" json:"discord_id"`
	GuildID    string         `gorm:"size:32;uniqueIndex:idx_user_guild;not null" json:"guild_id"`
	Roles      datatypes.JSON `json:"roles"`
	Entreprise *string        `gorm:"size:100" json:"entreprise"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
