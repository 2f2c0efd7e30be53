package taxes

import (
	"encoding/json"
	"errors"

	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveBracketsRequest struct {
	Entreprise string                  `json:"entreprise"`
	Brackets   []models.BracketPayload `json:"brackets"`
	Wealth     []models.WealthPayload  `json:"wealth"`
}

// GET /api/tax/brackets/:guild_id?entreprise=X
// Returns the resolved ladders, falling back to the guild default and then
// the built-in ones, so the client always gets a usable configuration.
func GetBracketsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entreprise := c.Query("entreprise")

		income, err := LoadIncomeBrackets(db, guildID, entreprise)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load tax brackets")
		}
		wealth, err := LoadWealthTiers(db, guildID, entreprise)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load wealth tiers")
		}

		return c.JSON(fiber.Map{
			"brackets": fromEngine(income),
			"wealth":   fromEngine(wealth),
		})
	}
}

// POST /api/tax/brackets/:guild_id
// Rejects malformed ladders before persisting anything. An empty entreprise
// writes the guild-wide default.
func SaveBracketsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body SaveBracketsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Brackets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one bracket is required")
		}
		if err := payroll.ValidateBrackets(toEngine(body.Brackets)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(body.Wealth) > 0 {
			asBrackets := make([]models.BracketPayload, len(body.Wealth))
			for i, w := range body.Wealth {
				asBrackets[i] = models.BracketPayload(w)
			}
			if err := payroll.ValidateBrackets(toEngine(asBrackets)); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		bracketsJSON, _ := json.Marshal(body.Brackets)
		wealthJSON, _ := json.Marshal(body.Wealth)
		cfg := models.TaxBracket{
			GuildID:    guildID,
			Entreprise: body.Entreprise,
			Brackets:   datatypes.JSON(bracketsJSON),
			Wealth:     datatypes.JSON(wealthJSON),
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}, {Name: "entreprise"}},
			DoUpdates: clause.AssignmentColumns([]string{"brackets", "wealth", "updated_at"}),
		}).Create(&cfg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save tax brackets")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Tax brackets saved"})
	}
}

// GET /api/tax/wealth/:guild_id?entreprise=X&amount=N
// Resolves the wealth ladder and, when an amount is given, the tax on it.
func WealthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entreprise := c.Query("entreprise")

		tiers, err := LoadWealthTiers(db, guildID, entreprise)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load wealth tiers")
		}

		resp := fiber.Map{"wealth": fromEngine(tiers)}
		if amountStr := c.Query("amount"); amountStr != "" {
			amount, err := decimal.NewFromString(amountStr)
			if err != nil || amount.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid amount")
			}
			tax, err := payroll.WealthTax(amount, tiers)
			if err != nil {
				if errors.Is(err, payroll.ErrConfiguration) {
					return fiber.NewError(fiber.StatusConflict, err.Error())
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute wealth tax")
			}
			resp["amount"] = amount.InexactFloat64()
			resp["tax"] = tax.InexactFloat64()
		}
		return c.JSON(resp)
	}
}
