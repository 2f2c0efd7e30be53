package dotation

import (
	"errors"
	"fmt"
	"time"

	"flashback-backend/internal/company"
	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrValidation marks a rejected save: nothing is persisted when any row of
// the batch is invalid.
var ErrValidation = errors.New("validation")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type RowInput struct {
	Name    string  `json:"name"`
	Run     float64 `json:"run"`
	Facture float64 `json:"facture"`
	Vente   float64 `json:"vente"`
}

type Deductions struct {
	Expenses      float64 `json:"expenses"`
	Withdrawals   float64 `json:"withdrawals"`
	Commissions   float64 `json:"commissions"`
	InterInvoices float64 `json:"interInvoices"`
}

type Totals struct {
	CATotal float64 `json:"ca_total"`
	Salaire float64 `json:"salaire"`
	Prime   float64 `json:"prime"`
}

// SaveBatch recomputes every row through the engine and replaces the stored
// row set of (guildID, entreprise) wholesale, in one transaction. Saving the
// same input twice yields the same stored state.
func (s *Service) SaveBatch(guildID, entreprise string, rows []RowInput, d Deductions) (*models.DotationBatch, Totals, error) {
	if err := validate(entreprise, rows, d); err != nil {
		return nil, Totals{}, err
	}

	pol, err := company.LoadPolicy(s.db, guildID, entreprise)
	if err != nil {
		return nil, Totals{}, fmt.Errorf("load policy: %w", err)
	}

	hours := decimal.NewFromInt(payroll.DefaultHoursWorked)
	newRows := make([]models.DotationRow, 0, len(rows))
	sumCA, sumSalaire, sumPrime := decimal.Zero, decimal.Zero, decimal.Zero

	for _, in := range rows {
		res := payroll.ComputeSalary(payroll.RevenueRow{
			Run:     decimal.NewFromFloat(in.Run),
			Facture: decimal.NewFromFloat(in.Facture),
			Vente:   decimal.NewFromFloat(in.Vente),
		}, hours, pol.Salary, pol.Grades, pol.Params, "")

		// salaire excludes the prime so that the solde formula below does
		// not count it twice.
		salaire := res.Base.Add(res.Bonus)
		newRows = append(newRows, models.DotationRow{
			Name:    in.Name,
			Run:     in.Run,
			Facture: in.Facture,
			Vente:   in.Vente,
			CATotal: res.CATotal.InexactFloat64(),
			Salaire: salaire.InexactFloat64(),
			Prime:   res.Prime.InexactFloat64(),
		})
		sumCA = sumCA.Add(res.CATotal)
		sumSalaire = sumSalaire.Add(salaire)
		sumPrime = sumPrime.Add(res.Prime)
	}

	solde := sumCA.Sub(sumSalaire).Sub(sumPrime).
		Sub(decimal.NewFromFloat(d.Expenses)).
		Sub(decimal.NewFromFloat(d.Withdrawals)).
		Sub(decimal.NewFromFloat(d.Commissions)).
		Sub(decimal.NewFromFloat(d.InterInvoices))
	solde = payroll.Round2(solde)

	var batch models.DotationBatch
	err = s.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// Serialize concurrent saves for the same key on the batch row.
		// SQLite (tests) has no FOR UPDATE; its single writer is enough.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		err := q.Where("guild_id = ? AND entreprise = ?", guildID, entreprise).First(&batch).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			batch = models.DotationBatch{GuildID: guildID, Entreprise: entreprise}
			if err := tx.Create(&batch).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Full-snapshot-per-save: delete everything, insert the new set.
		if err := tx.Where("batch_id = ?", batch.ID).Delete(&models.DotationRow{}).Error; err != nil {
			return err
		}
		for i := range newRows {
			newRows[i].BatchID = batch.ID
		}
		if len(newRows) > 0 {
			if err := tx.Create(&newRows).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&batch).Updates(map[string]any{
			"solde_actuel":   solde.InexactFloat64(),
			"expenses":       d.Expenses,
			"withdrawals":    d.Withdrawals,
			"commissions":    d.Commissions,
			"inter_invoices": d.InterInvoices,
		}).Error; err != nil {
			return err
		}

		ent := entreprise
		entry := models.ArchiveEntry{
			GuildID:    guildID,
			Date:       time.Now().UTC().Format("2006-01-02"),
			Type:       models.ArchiveTypeDotation,
			Entreprise: &ent,
			Montant:    payroll.Round2(sumSalaire.Add(sumPrime)).InexactFloat64(),
			Statut:     models.ArchiveStatutValide,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, Totals{}, err
	}

	batch.Rows = newRows
	totals := Totals{
		CATotal: payroll.Round2(sumCA).InexactFloat64(),
		Salaire: payroll.Round2(sumSalaire).InexactFloat64(),
		Prime:   payroll.Round2(sumPrime).InexactFloat64(),
	}
	return &batch, totals, nil
}

// GetBatch loads the live batch with its rows. Absence is not an error:
// both return values are nil.
func (s *Service) GetBatch(guildID, entreprise string) (*models.DotationBatch, error) {
	var batch models.DotationBatch
	err := s.db.Preload("Rows", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("guild_id = ? AND entreprise = ?", guildID, entreprise).First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func validate(entreprise string, rows []RowInput, d Deductions) error {
	if entreprise == "" {
		return fmt.Errorf("%w: entreprise is required", ErrValidation)
	}
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			return fmt.Errorf("%w: row without employee name", ErrValidation)
		}
		if r.Run < 0 || r.Facture < 0 || r.Vente < 0 {
			return fmt.Errorf("%w: negative revenue component for %q", ErrValidation, r.Name)
		}
		// Duplicate names are rejected, not merged: one row per employee.
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%w: duplicate employee %q in batch", ErrValidation, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	if d.Expenses < 0 || d.Withdrawals < 0 || d.Commissions < 0 || d.InterInvoices < 0 {
		return fmt.Errorf("%w: deductions must be non-negative", ErrValidation)
	}
	return nil
}
