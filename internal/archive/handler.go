package archive

import (
	"time"

	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AddEntryRequest struct {
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	Employe    *string `json:"employe"`
	Entreprise *string `json:"entreprise"`
	Montant    float64 `json:"montant"`
	Statut     string  `json:"statut"`
}

// GET /api/archive/:guild_id?entreprise=X
// Newest first. The entreprise filter is optional.
func ListHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		q := db.Where("guild_id = ?", guildID)
		if entreprise := c.Query("entreprise"); entreprise != "" {
			q = q.Where("entreprise = ?", entreprise)
		}

		entries := []models.ArchiveEntry{}
		if err := q.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load archive")
		}
		return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
	}
}

// POST /api/archive/:guild_id
// Entries are append-only; there is no update or delete endpoint.
func AddHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body AddEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "type is required")
		}
		if body.Date == "" {
			body.Date = time.Now().UTC().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", body.Date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		if body.Statut == "" {
			body.Statut = models.ArchiveStatutEnAttente
		}

		entry := models.ArchiveEntry{
			GuildID:    guildID,
			Date:       body.Date,
			Type:       body.Type,
			Employe:    body.Employe,
			Entreprise: body.Entreprise,
			Montant:    body.Montant,
			Statut:     body.Statut,
		}
		if err := db.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save archive entry")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "entry": entry})
	}
}
