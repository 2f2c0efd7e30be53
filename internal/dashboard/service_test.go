package dashboard

import (
	"path/filepath"
	"testing"

	"flashback-backend/internal/database"
	"flashback-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedBatch(t *testing.T, db *gorm.DB, guildID, entreprise string, caTotals ...float64) {
	t.Helper()
	batch := models.DotationBatch{GuildID: guildID, Entreprise: entreprise}
	require.NoError(t, db.Create(&batch).Error)
	for i, ca := range caTotals {
		require.NoError(t, db.Create(&models.DotationRow{
			BatchID: batch.ID,
			Name:    string(rune('A' + i)),
			CATotal: ca,
		}).Error)
	}
}

func TestRecomputeDefaultLadder(t *testing.T) {
	db := setupDB(t)
	seedBatch(t, db, "g1", "e", 60000, 40000)

	summary, err := NewService(db).Recompute("g1", "e")
	require.NoError(t, err)

	assert.Equal(t, 100000.0, summary.CABrut)
	assert.Equal(t, 25000.0, summary.Depenses)
	assert.Equal(t, 20000.0, summary.DepensesDeductibles)
	assert.Equal(t, 80000.0, summary.Benefice)
	// Default ladder on 80 000: 10% of 10k + 20% of 40k + 30% of 30k.
	assert.Equal(t, 18000.0, summary.MontantImpots)
	assert.Equal(t, 22.5, summary.TauxImposition)
	assert.Equal(t, 2, summary.EmployeeCount)
}

func TestRecomputeUsesStoredBrackets(t *testing.T) {
	db := setupDB(t)
	seedBatch(t, db, "g1", "e", 100000)
	require.NoError(t, db.Create(&models.TaxBracket{
		GuildID:    "g1",
		Entreprise: "e",
		Brackets:   datatypes.JSON(`[{"min":0,"max":null,"taux":50}]`),
	}).Error)

	summary, err := NewService(db).Recompute("g1", "e")
	require.NoError(t, err)
	assert.Equal(t, 40000.0, summary.MontantImpots) // 50% of 80 000
	assert.Equal(t, 50.0, summary.TauxImposition)
}

func TestRecomputeGuildDefaultFallback(t *testing.T) {
	db := setupDB(t)
	seedBatch(t, db, "g1", "e", 100000)
	// Guild-wide config (empty entreprise) applies when the enterprise
	// has none of its own.
	require.NoError(t, db.Create(&models.TaxBracket{
		GuildID:  "g1",
		Brackets: datatypes.JSON(`[{"min":0,"max":null,"taux":10}]`),
	}).Error)

	summary, err := NewService(db).Recompute("g1", "e")
	require.NoError(t, err)
	assert.Equal(t, 8000.0, summary.MontantImpots)
}

func TestRecomputeNoRows(t *testing.T) {
	db := setupDB(t)
	summary, err := NewService(db).Recompute("g1", "empty")
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.CABrut)
	assert.Equal(t, 0.0, summary.MontantImpots)
	assert.Equal(t, 0.0, summary.TauxImposition)
	assert.Equal(t, 0, summary.EmployeeCount)
}

func TestRecomputeUpsertsSummary(t *testing.T) {
	db := setupDB(t)
	seedBatch(t, db, "g1", "e", 50000)
	svc := NewService(db)

	_, err := svc.Recompute("g1", "e")
	require.NoError(t, err)
	_, err = svc.Recompute("g1", "e")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.DashboardSummary{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
