package dashboard

import (
	"log/slog"

	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/dashboard/summary/:guild_id?entreprise=X
// Always recomputes from the stored rows; the persisted summary row is a
// cache for external consumers, not the response source.
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entreprise := c.Query("entreprise")
		if entreprise == "" {
			return fiber.NewError(fiber.StatusBadRequest, "entreprise is required")
		}

		summary, err := svc.Recompute(guildID, entreprise)
		if err != nil {
			slog.Error("dashboard recompute failed", "guild_id", guildID, "entreprise", entreprise, "err", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute dashboard summary")
		}
		return c.JSON(summary)
	}
}

// GET /api/dashboard/employees/:guild_id?entreprise=X
func EmployeeCountHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entreprise := c.Query("entreprise")
		if entreprise == "" {
			return fiber.NewError(fiber.StatusBadRequest, "entreprise is required")
		}

		var count int64
		err := db.Model(&models.DotationRow{}).
			Joins("JOIN dotation_batches ON dotation_batches.id = dotation_rows.batch_id").
			Where("dotation_batches.guild_id = ? AND dotation_batches.entreprise = ?", guildID, entreprise).
			Count(&count).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to count employees")
		}
		return c.JSON(fiber.Map{"entreprise": entreprise, "employee_count": count})
	}
}
