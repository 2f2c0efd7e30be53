package database

import (
	"fmt"

	"flashback-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs migrations. The returned handle is
// passed explicitly to every handler; there is no package-level instance.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Migrate runs AutoMigrate for every model. Also used by tests against an
// in-memory sqlite handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Guild{},
		&models.UserGuildRole{},
		&models.Entreprise{},
		&models.DotationBatch{},
		&models.DotationRow{},
		&models.CompanyConfig{},
		&models.TaxBracket{},
		&models.StaffConfig{},
		&models.DashboardSummary{},
		&models.ArchiveEntry{},
		&models.BlanchimentState{},
		&models.BlanchimentGlobal{},
		&models.Document{},
		&models.DiscordConfig{},
	)
}
