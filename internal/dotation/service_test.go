package dotation

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

func TestSaveBatchDefaults(t *testing.T) {
	svc := NewService(setupDB(t))

	rows := []RowInput{
		{Name: "Alice", Run: 1000, Facture: 500, Vente: 500},
		{Name: "Bob", Run: 2000},
	}
	batch, totals, err := svc.SaveBatch("g1", "uber-eats", rows, Deductions{Expenses: 100})
	require.NoError(t, err)

	// Default policy: 5% of CA, no prime.
	assert.Equal(t, 4000.0, totals.CATotal)
	assert.Equal(t, 200.0, totals.Salaire)
	assert.Equal(t, 0.0, totals.Prime)
	// solde = sum CA - salaires - primes - deductions
	assert.Equal(t, 3700.0, batch.SoldeActuel)

	require.Len(t, batch.Rows, 2)
	assert.Equal(t, 2000.0, batch.Rows[0].CATotal)
	assert.Equal(t, 100.0, batch.Rows[0].Salaire)
}

func TestSaveBatchUsesStoredPolicy(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.CompanyConfig{
		GuildID:      "g1",
		EntrepriseID: "uber-eats",
		Salaire:      datatypes.JSON(`{"pourcentageCA":10,"modes":{"caEmploye":true}}`),
	}).Error)
	svc := NewService(db)

	batch, totals, err := svc.SaveBatch("g1", "uber-eats", []RowInput{
		{Name: "Alice", Run: 1000},
	}, Deductions{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, totals.Salaire)
	assert.Equal(t, 900.0, batch.SoldeActuel)
}

func TestSaveBatchIgnoresClientTotals(t *testing.T) {
	// RowInput carries no ca_total/salaire fields at all: derived values
	// only ever come out of the engine. This guards the JSON contract.
	svc := NewService(setupDB(t))
	batch, _, err := svc.SaveBatch("g1", "e", []RowInput{{Name: "A", Run: 100}}, Deductions{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, batch.Rows[0].CATotal)
	assert.Equal(t, 5.0, batch.Rows[0].Salaire)
}

func TestSaveBatchIdempotent(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	rows := []RowInput{{Name: "Alice", Run: 500}, {Name: "Bob", Run: 700}}

	first, _, err := svc.SaveBatch("g1", "e", rows, Deductions{Withdrawals: 50})
	require.NoError(t, err)
	second, _, err := svc.SaveBatch("g1", "e", rows, Deductions{Withdrawals: 50})
	require.NoError(t, err)

	assert.Equal(t, first.SoldeActuel, second.SoldeActuel)

	var count int64
	require.NoError(t, db.Model(&models.DotationRow{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "resave must not accumulate rows")

	var batches int64
	require.NoError(t, db.Model(&models.DotationBatch{}).Count(&batches).Error)
	assert.EqualValues(t, 1, batches)
}

func TestSaveBatchReplacesRows(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)

	_, _, err := svc.SaveBatch("g1", "e", []RowInput{
		{Name: "A", Run: 1}, {Name: "B", Run: 2}, {Name: "C", Run: 3},
	}, Deductions{})
	require.NoError(t, err)

	batch, _, err := svc.SaveBatch("g1", "e", []RowInput{{Name: "D", Run: 4}}, Deductions{})
	require.NoError(t, err)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, "D", batch.Rows[0].Name)

	var count int64
	require.NoError(t, db.Model(&models.DotationRow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "replaced rows must not linger")
}

func TestSaveBatchValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)

	// Establish a known good state first.
	_, _, err := svc.SaveBatch("g1", "e", []RowInput{{Name: "A", Run: 100}}, Deductions{})
	require.NoError(t, err)

	cases := []struct {
		name string
		rows []RowInput
		d    Deductions
	}{
		{"negative component", []RowInput{{Name: "A", Run: -1}}, Deductions{}},
		{"missing name", []RowInput{{Run: 10}}, Deductions{}},
		{"duplicate name", []RowInput{{Name: "A", Run: 1}, {Name: "A", Run: 2}}, Deductions{}},
		{"negative deduction", []RowInput{{Name: "A", Run: 1}}, Deductions{Commissions: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.SaveBatch("g1", "e", tc.rows, tc.d)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// All-or-nothing: the rejected saves left the stored batch untouched.
	batch, err := svc.GetBatch("g1", "e")
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, 100.0, batch.Rows[0].CATotal)
}

func TestSaveBatchRequiresEntreprise(t *testing.T) {
	svc := NewService(setupDB(t))
	_, _, err := svc.SaveBatch("g1", "", []RowInput{{Name: "A"}}, Deductions{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveBatchWritesArchive(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)

	_, _, err := svc.SaveBatch("g1", "uber-eats", []RowInput{{Name: "A", Run: 2000}}, Deductions{})
	require.NoError(t, err)

	var entries []models.ArchiveEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ArchiveTypeDotation, entries[0].Type)
	assert.Equal(t, models.ArchiveStatutValide, entries[0].Statut)
	require.NotNil(t, entries[0].Entreprise)
	assert.Equal(t, "uber-eats", *entries[0].Entreprise)
	assert.Equal(t, 100.0, entries[0].Montant)
}

func TestGetBatchAbsent(t *testing.T) {
	svc := NewService(setupDB(t))
	batch, err := svc.GetBatch("g1", "nope")
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestBatchesAreTenantScoped(t *testing.T) {
	svc := NewService(setupDB(t))

	_, _, err := svc.SaveBatch("g1", "e", []RowInput{{Name: "A", Run: 100}}, Deductions{})
	require.NoError(t, err)
	_, _, err = svc.SaveBatch("g2", "e", []RowInput{{Name: "B", Run: 200}}, Deductions{})
	require.NoError(t, err)

	b1, err := svc.GetBatch("g1", "e")
	require.NoError(t, err)
	require.Len(t, b1.Rows, 1)
	assert.Equal(t, "A", b1.Rows[0].Name)

	b2, err := svc.GetBatch("g2", "e")
	require.NoError(t, err)
	require.Len(t, b2.Rows, 1)
	assert.Equal(t, "B", b2.Rows[0].Name)
}
