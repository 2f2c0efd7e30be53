package company

import (
	"encoding/json"
	"errors"
	"log/slog"

	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveConfigRequest struct {
	EntrepriseID   string                        `json:"entreprise_id"`
	Identification models.IdentificationPayload  `json:"identification"`
	Salaire        models.SalaryPayload          `json:"salaire"`
	Parametres     map[string]models.CalculParam `json:"parametres"`
	GradeRules     []models.GradeRule            `json:"gradeRules"`
	ErrorTiers     []models.TierPayload          `json:"errorTiers"`
	RoleDiscord    string                        `json:"roleDiscord"`
	Employees      []models.EmployeePayload      `json:"employees"`
}

// GET /api/company/config/:guild_id?entreprise_id=X
// Absent config is not an error: the documented defaults are returned.
func GetConfigHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entrepriseID := c.Query("entreprise_id")

		var cfg models.CompanyConfig
		err := db.Where("guild_id = ? AND entreprise_id = ?", guildID, entrepriseID).First(&cfg).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load company configuration")
		}
		if err != nil {
			return c.JSON(fiber.Map{
				"identification": models.IdentificationPayload{Label: "Entreprise", Type: "Société"},
				"salaire":        models.DefaultSalaryPayload(),
				"parametres":     fiber.Map{},
				"gradeRules":     []models.GradeRule{},
				"errorTiers":     []models.TierPayload{},
				"roleDiscord":    "",
				"employees":      []models.EmployeePayload{},
			})
		}
		return c.JSON(cfg)
	}
}

// POST /api/company/config/:guild_id
func SaveConfigHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		var body SaveConfigRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		warnUnknownModes(c.Body(), guildID)

		cfg := models.CompanyConfig{
			GuildID:        guildID,
			EntrepriseID:   body.EntrepriseID,
			Identification: mustJSON(body.Identification),
			Salaire:        mustJSON(body.Salaire),
			Parametres:     mustJSON(body.Parametres),
			GradeRules:     mustJSON(body.GradeRules),
			ErrorTiers:     mustJSON(body.ErrorTiers),
			Employees:      mustJSON(body.Employees),
			RoleDiscord:    body.RoleDiscord,
		}

		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guild_id"}, {Name: "entreprise_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"identification", "salaire", "parametres", "grade_rules",
				"error_tiers", "employees", "role_discord", "updated_at",
			}),
		}).Create(&cfg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save company configuration")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Company configuration saved"})
	}
}

// warnUnknownModes logs mode keys outside the known schema. They are
// dropped, not stored.
func warnUnknownModes(body []byte, guildID string) {
	var probe struct {
		Salaire struct {
			Modes map[string]bool `json:"modes"`
		} `json:"salaire"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return
	}
	for key := range probe.Salaire.Modes {
		switch key {
		case "caEmploye", "heuresService", "additionner":
		default:
			slog.Warn("ignoring unknown salary mode", "guild_id", guildID, "mode", key)
		}
	}
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
