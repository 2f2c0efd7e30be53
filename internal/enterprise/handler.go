package enterprise

import (
	"errors"
	"regexp"
	"strings"

	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the stable enterprise key from a display name:
// lower-kebab, ascii-ish, no leading/trailing dashes.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type CreateRequest struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	RoleDiscord string `json:"roleDiscord"`
}

// GET /api/enterprises/:guild_id
func ListHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		enterprises := []models.Entreprise{}
		if err := db.Where("guild_id = ?", guildID).Order("key ASC").Find(&enterprises).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load enterprises")
		}
		return c.JSON(fiber.Map{"enterprises": enterprises, "count": len(enterprises)})
	}
}

// POST /api/enterprises/:guild_id
// The key defaults to the slugified name; posting an existing key updates
// the entry in place.
func CreateHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body CreateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		key := body.Key
		if key == "" {
			key = Slugify(body.Name)
		}
		if key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Could not derive a key from this name")
		}

		ent := models.Entreprise{
			GuildID:     guildID,
			Key:         key,
			Name:        body.Name,
			RoleDiscord: body.RoleDiscord,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role_discord", "updated_at"}),
		}).Create(&ent).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save enterprise")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "enterprise": ent})
	}
}

// DELETE /api/enterprises/:guild_id/:key
// Removes only the registry entry. Configs, batches and archives keep their
// history under the old key.
func DeleteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		key := c.Params("key")

		var ent models.Entreprise
		err := db.Where("guild_id = ? AND key = ?", guildID, key).First(&ent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Enterprise not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load enterprise")
		}
		if err := db.Delete(&ent).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete enterprise")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Enterprise deleted"})
	}
}
