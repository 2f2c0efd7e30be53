package discordconfig

import (
	"encoding/json"
	"errors"

	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GET /api/discord/config
// The payload is stored and served opaque; only the frontend interprets it.
func GetHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cfg models.DiscordConfig
		err := db.First(&cfg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"payload": fiber.Map{}})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load discord config")
		}
		return c.JSON(fiber.Map{"payload": cfg.Payload, "updated_at": cfg.UpdatedAt})
	}
}

// POST /api/discord/config
// Single-row table: the first save creates it, later saves overwrite.
func SaveHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Empty payload")
		}
		if !json.Valid(body) {
			return fiber.NewError(fiber.StatusBadRequest, "Payload must be valid JSON")
		}

		var cfg models.DiscordConfig
		err := db.First(&cfg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = models.DiscordConfig{Payload: datatypes.JSON(body)}
			if err := db.Create(&cfg).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to save discord config")
			}
			return c.JSON(fiber.Map{"success": true})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load discord config")
		}

		if err := db.Model(&cfg).Update("payload", datatypes.JSON(body)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save discord config")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
