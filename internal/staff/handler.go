package staff

import (
	"encoding/json"
	"errors"

	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveConfigRequest struct {
	Paliers []models.StaffPalier `json:"paliers"`
}

// GET /api/staff/config/:guild_id
// A guild that never saved a grid gets the built-in one.
func GetConfigHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var cfg models.StaffConfig
		err := db.Where("guild_id = ?", guildID).First(&cfg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"paliers": models.DefaultStaffPaliers()})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load staff configuration")
		}

		var paliers []models.StaffPalier
		if err := json.Unmarshal(cfg.Paliers, &paliers); err != nil || len(paliers) == 0 {
			return c.JSON(fiber.Map{"paliers": models.DefaultStaffPaliers()})
		}
		return c.JSON(fiber.Map{"paliers": paliers})
	}
}

// POST /api/staff/config/:guild_id
func SaveConfigHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body SaveConfigRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Paliers) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one palier is required")
		}
		for _, p := range body.Paliers {
			if p.Max < p.Min {
				return fiber.NewError(fiber.StatusBadRequest, "Palier has max < min")
			}
			if p.Taux < 0 || p.Taux > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "Palier taux must be between 0 and 100")
			}
		}

		payload, _ := json.Marshal(body.Paliers)
		cfg := models.StaffConfig{GuildID: guildID, Paliers: datatypes.JSON(payload)}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"paliers", "updated_at"}),
		}).Create(&cfg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save staff configuration")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Staff configuration saved"})
	}
}
