package dashboard

import (
	"errors"
	"fmt"

	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"
	"flashback-backend/internal/taxes"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Expense model applied to the gross figure: a quarter of CA counts as
// operating expenses, of which 80% is deductible.
var (
	expenseShare    = decimal.NewFromFloat(0.25)
	deductibleShare = decimal.NewFromFloat(0.8)
	hundred         = decimal.NewFromInt(100)
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Recompute derives the KPI summary of (guildID, entreprise) from the stored
// dotation rows and tax configuration, persists it, and returns it. An
// enterprise with no rows yields an all-zero summary.
func (s *Service) Recompute(guildID, entreprise string) (*models.DashboardSummary, error) {
	var batch models.DotationBatch
	rows := []models.DotationRow{}
	err := s.db.Where("guild_id = ? AND entreprise = ?", guildID, entreprise).First(&batch).Error
	if err == nil {
		if err := s.db.Where("batch_id = ?", batch.ID).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load rows: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	caBrut := decimal.Zero
	for _, r := range rows {
		caBrut = caBrut.Add(decimal.NewFromFloat(r.CATotal))
	}

	depenses := payroll.Round2(caBrut.Mul(expenseShare))
	deductibles := payroll.Round2(depenses.Mul(deductibleShare))
	benefice := payroll.Round2(caBrut.Sub(deductibles))

	brackets, err := taxes.LoadIncomeBrackets(s.db, guildID, entreprise)
	if err != nil {
		return nil, fmt.Errorf("load brackets: %w", err)
	}

	// Losses owe nothing; the ladder only ever sees a non-negative base.
	taxable := benefice
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	impots, err := payroll.ResolveProgressive(taxable, brackets)
	if err != nil {
		return nil, fmt.Errorf("resolve tax: %w", err)
	}
	taux := payroll.EffectiveRate(taxable, impots).Mul(hundred)

	summary := models.DashboardSummary{
		GuildID:             guildID,
		Entreprise:          entreprise,
		CABrut:              caBrut.InexactFloat64(),
		Depenses:            depenses.InexactFloat64(),
		DepensesDeductibles: deductibles.InexactFloat64(),
		Benefice:            benefice.InexactFloat64(),
		TauxImposition:      payroll.Round2(taux).InexactFloat64(),
		MontantImpots:       impots.InexactFloat64(),
		EmployeeCount:       len(rows),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guild_id"}, {Name: "entreprise"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ca_brut", "depenses", "depenses_deductibles", "benefice",
			"taux_imposition", "montant_impots", "employee_count", "updated_at",
		}),
	}).Create(&summary).Error; err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}
	return &summary, nil
}
