package dotation

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/dotation/:guild_id/export?entreprise=X
// Exports the live batch as an xlsx workbook: one line per employee plus
// the totals and deductions block.
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entreprise := c.Query("entreprise")
		if entreprise == "" {
			return fiber.NewError(fiber.StatusBadRequest, "entreprise is required")
		}

		batch, err := svc.GetBatch(guildID, entreprise)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load dotation")
		}
		if batch == nil {
			return fiber.NewError(fiber.StatusNotFound, "No dotation batch for this enterprise")
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)

		headers := []string{"Employé", "RUN", "Facture", "Vente", "CA Total", "Salaire", "Prime"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		var sumCA, sumSalaire, sumPrime float64
		for i, row := range batch.Rows {
			values := []any{row.Name, row.Run, row.Facture, row.Vente, row.CATotal, row.Salaire, row.Prime}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
			sumCA += row.CATotal
			sumSalaire += row.Salaire
			sumPrime += row.Prime
		}

		totalRow := len(batch.Rows) + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), sumCA)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), sumSalaire)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), sumPrime)

		deductions := [][2]any{
			{"Dépenses", batch.Expenses},
			{"Retraits", batch.Withdrawals},
			{"Commissions", batch.Commissions},
			{"Factures inter-entreprises", batch.InterInvoices},
			{"Solde actuel", batch.SoldeActuel},
		}
		for i, d := range deductions {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow+2+i), d[0])
			f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow+2+i), d[1])
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to build workbook")
		}

		filename := fmt.Sprintf("dotation_%s_%s.xlsx", entreprise, time.Now().UTC().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
