package taxes

import (
	"path/filepath"
	"testing"

	"flashback-backend/internal/database"
	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"

	"github.com/shopspring/decimal"
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

func TestLoadIncomeBracketsBuiltinFallback(t *testing.T) {
	db := setupDB(t)
	brackets, err := LoadIncomeBrackets(db, "g1", "e")
	require.NoError(t, err)
	assert.Equal(t, payroll.DefaultIncomeBrackets(), brackets)
}

func TestLoadIncomeBracketsGuildFallback(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.TaxBracket{
		GuildID:  "g1",
		Brackets: datatypes.JSON(`[{"min":0,"max":null,"taux":12}]`),
	}).Error)

	brackets, err := LoadIncomeBrackets(db, "g1", "e")
	require.NoError(t, err)
	require.Len(t, brackets, 1)
	assert.True(t, brackets[0].Rate.Equal(decimal.NewFromFloat(0.12)), "taux must be scaled down to a fraction")
}

func TestLoadIncomeBracketsEnterpriseWins(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.TaxBracket{
		GuildID:  "g1",
		Brackets: datatypes.JSON(`[{"min":0,"max":null,"taux":12}]`),
	}).Error)
	require.NoError(t, db.Create(&models.TaxBracket{
		GuildID:    "g1",
		Entreprise: "e",
		Brackets:   datatypes.JSON(`[{"min":0,"max":null,"taux":30}]`),
	}).Error)

	brackets, err := LoadIncomeBrackets(db, "g1", "e")
	require.NoError(t, err)
	require.Len(t, brackets, 1)
	assert.True(t, brackets[0].Rate.Equal(decimal.NewFromFloat(0.30)))
}

func TestLoadWealthTiersBuiltinFallback(t *testing.T) {
	db := setupDB(t)
	tiers, err := LoadWealthTiers(db, "g1", "e")
	require.NoError(t, err)
	assert.Equal(t, payroll.DefaultWealthTiers(), tiers)
}

func TestBracketRoundTrip(t *testing.T) {
	in := []models.BracketPayload{
		{Min: 0, Max: f64(10000), Taux: 10},
		{Min: 10000, Max: nil, Taux: 25},
	}
	out := fromEngine(toEngine(in))
	require.Len(t, out, 2)
	assert.Equal(t, 10.0, out[0].Taux)
	require.NotNil(t, out[0].Max)
	assert.Equal(t, 10000.0, *out[0].Max)
	assert.Nil(t, out[1].Max)
	assert.Equal(t, 25.0, out[1].Taux)
}

func f64(v float64) *float64 { return &v }
