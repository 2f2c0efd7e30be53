package dotation

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type SaveRequest struct {
	Entreprise    string     `json:"entreprise"`
	Rows          []RowInput `json:"rows"`
	Expenses      float64    `json:"expenses"`
	Withdrawals   float64    `json:"withdrawals"`
	Commissions   float64    `json:"commissions"`
	InterInvoices float64    `json:"interInvoices"`
}

// GET /api/dotation/:guild_id?entreprise=X
// An enterprise without a batch gets the zeroed structure, not a 404.
func GetHandler(svc *Service) fiber.Handler {
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
			return c.JSON(fiber.Map{
				"rows":          []fiber.Map{},
				"soldeActuel":   0,
				"expenses":      0,
				"withdrawals":   0,
				"commissions":   0,
				"interInvoices": 0,
			})
		}

		return c.JSON(fiber.Map{
			"rows":          batch.Rows,
			"soldeActuel":   batch.SoldeActuel,
			"expenses":      batch.Expenses,
			"withdrawals":   batch.Withdrawals,
			"commissions":   batch.Commissions,
			"interInvoices": batch.InterInvoices,
		})
	}
}

// POST /api/dotation/:guild_id
func SaveHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body SaveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		batch, totals, err := svc.SaveBatch(guildID, body.Entreprise, body.Rows, Deductions{
			Expenses:      body.Expenses,
			Withdrawals:   body.Withdrawals,
			Commissions:   body.Commissions,
			InterInvoices: body.InterInvoices,
		})
		if err != nil {
			if errors.Is(err, ErrValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			slog.Error("dotation save failed", "guild_id", guildID, "entreprise", body.Entreprise, "err", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save dotation")
		}

		return c.JSON(fiber.Map{
			"success":     true,
			"message":     "Dotation saved",
			"totals":      totals,
			"soldeActuel": batch.SoldeActuel,
		})
	}
}
