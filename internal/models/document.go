package models

import "time"

const (
	DocumentTypeFacture = "facture"
	DocumentTypeDiplome = "diplome"
)

// Document is an uploaded blob (invoice or diploma) owned by one enterprise.
type Document struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"` // uuid
	GuildID    string `gorm:"size:32;index:idx_document_guild_entreprise;not null" json:"guild_id"`
	Entreprise string `gorm:"size:100;index:idx_document_guild_entreprise;not null" json:"entreprise"`

	Filename     string `gorm:"size:255;not null" json:"filename"`
	ContentType  string `gorm:"size:100;not null" json:"content_type"`
	Size         int64  `gorm:"not null" json:"size"`
	FileData     []byte `gorm:"type:bytea" json:"-"`
	UploadedBy   string `gorm:"size:100" json:"uploaded_by"`
	DocumentType string `gorm:"size:20;not null" json:"document_type"`

	CreatedAt time.Time `json:"created_at"`
}
