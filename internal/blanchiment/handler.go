package blanchiment

import (
	"errors"

	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hundred = decimal.NewFromInt(100)

type SaveStateRequest struct {
	Enabled        bool     `json:"enabled"`
	UseGlobal      bool     `json:"use_global"`
	PercEntreprise *float64 `json:"perc_entreprise"`
	PercGroupe     *float64 `json:"perc_groupe"`
}

type SaveGlobalRequest struct {
	PercEntreprise float64 `json:"perc_entreprise"`
	PercGroupe     float64 `json:"perc_groupe"`
}

// resolveState merges a scope's row with the guild global percentages when
// use_global is set. A missing row yields the disabled default.
func resolveState(db *gorm.DB, scope, guildID string) (models.BlanchimentState, error) {
	state := models.BlanchimentState{
		Scope:          scope,
		UseGlobal:      true,
		PercEntreprise: models.DefaultPercEntreprise,
		PercGroupe:     models.DefaultPercGroupe,
	}
	err := db.Where("scope = ?", scope).First(&state).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return state, err
	}

	if state.UseGlobal {
		var global models.BlanchimentGlobal
		err := db.Where("guild_id = ?", guildID).First(&global).Error
		if err == nil {
			state.PercEntreprise = global.PercEntreprise
			state.PercGroupe = global.PercGroupe
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return state, err
		}
	}
	return state, nil
}

// GET /api/blanchiment/state/:guild_id/:scope
func GetStateHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		scope := c.Params("scope")

		state, err := resolveState(db, scope, guildID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load blanchiment state")
		}
		return c.JSON(state)
	}
}

// POST /api/blanchiment/state/:guild_id/:scope
func SaveStateHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := c.Params("scope")

		var body SaveStateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		state := models.BlanchimentState{
			Scope:          scope,
			Enabled:        body.Enabled,
			UseGlobal:      body.UseGlobal,
			PercEntreprise: models.DefaultPercEntreprise,
			PercGroupe:     models.DefaultPercGroupe,
		}
		if body.PercEntreprise != nil {
			if err := checkPerc(*body.PercEntreprise); err != nil {
				return err
			}
			state.PercEntreprise = *body.PercEntreprise
		}
		if body.PercGroupe != nil {
			if err := checkPerc(*body.PercGroupe); err != nil {
				return err
			}
			state.PercGroupe = *body.PercGroupe
		}

		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "scope"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "use_global", "perc_entreprise", "perc_groupe", "updated_at",
			}),
		}).Create(&state).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save blanchiment state")
		}
		return c.JSON(fiber.Map{"success": true, "state": state})
	}
}

// GET /api/blanchiment/global/:guild_id
func GetGlobalHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var global models.BlanchimentGlobal
		err := db.Where("guild_id = ?", guildID).First(&global).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(models.BlanchimentGlobal{
				GuildID:        guildID,
				PercEntreprise: models.DefaultPercEntreprise,
				PercGroupe:     models.DefaultPercGroupe,
			})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load global percentages")
		}
		return c.JSON(global)
	}
}

// POST /api/blanchiment/global/:guild_id
func SaveGlobalHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body SaveGlobalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := checkPerc(body.PercEntreprise); err != nil {
			return err
		}
		if err := checkPerc(body.PercGroupe); err != nil {
			return err
		}

		global := models.BlanchimentGlobal{
			GuildID:        guildID,
			PercEntreprise: body.PercEntreprise,
			PercGroupe:     body.PercGroupe,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"perc_entreprise", "perc_groupe", "updated_at"}),
		}).Create(&global).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save global percentages")
		}
		return c.JSON(fiber.Map{"success": true, "global": global})
	}
}

// GET /api/blanchiment/split/:guild_id/:scope?montant=N
// Preview of the enterprise/group cuts under the resolved percentages.
func SplitHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		scope := c.Params("scope")

		montant, err := decimal.NewFromString(c.Query("montant"))
		if err != nil || montant.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid montant")
		}

		state, err := resolveState(db, scope, guildID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load blanchiment state")
		}
		if !state.Enabled {
			return fiber.NewError(fiber.StatusConflict, "Blanchiment is disabled for this scope")
		}

		entreprise, groupe := payroll.SplitProceeds(
			montant,
			decimal.NewFromFloat(state.PercEntreprise).Div(hundred),
			decimal.NewFromFloat(state.PercGroupe).Div(hundred),
		)
		return c.JSON(fiber.Map{
			"montant":         montant.InexactFloat64(),
			"part_entreprise": entreprise.InexactFloat64(),
			"part_groupe":     groupe.InexactFloat64(),
			"perc_entreprise": state.PercEntreprise,
			"perc_groupe":     state.PercGroupe,
		})
	}
}

func checkPerc(v float64) error {
	if v < 0 || v > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "Percentages must be between 0 and 100")
	}
	return nil
}
