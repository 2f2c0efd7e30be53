package models

import "time"

// BlanchimentState is the revenue-split toggle for one scope (a guild id or
// an enterprise key). When UseGlobal is set, the percentages come from the
// guild's BlanchimentGlobal row instead.
type BlanchimentState struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	Scope          string  `gorm:"size:100;uniqueIndex;not null" json:"scope"`
	Enabled        bool    `gorm:"not null;default:false" json:"enabled"`
	UseGlobal      bool    `gorm:"not null;default:true" json:"use_global"`
	PercEntreprise float64 `gorm:"not null;default:15" json:"perc_entreprise"`
	PercGroupe     float64 `gorm:"not null;default:80" json:"perc_groupe"`

	UpdatedAt time.Time `json:"updated_at"`
}

type BlanchimentGlobal struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	GuildID        string  `gorm:"size:32;uniqueIndex;not null" json:"guild_id"`
	PercEntreprise float64 `gorm:"not null;default:15" json:"perc_entreprise"`
	PercGroupe     float64 `gorm:"not null;default:80" json:"perc_groupe"`

	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DefaultPercEntreprise = 15
	DefaultPercGroupe     = 80
)
