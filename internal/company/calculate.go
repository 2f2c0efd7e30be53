package company

import (
	"flashback-backend/internal/payroll"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CalculateRequest struct {
	EmployeeCA  float64 `json:"employeeCA"`
	HoursWorked float64 `json:"hoursWorked"`
	GuildID     string  `json:"guildId"`
	Entreprise  string  `json:"entreprise"`
	Grade       string  `json:"grade"`
}

// POST /api/salary/calculate
// One-shot preview through the same engine the dotation save uses. Nothing
// is persisted.
func CalculateHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CalculateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.GuildID == "" || body.Entreprise == "" {
			return fiber.NewError(fiber.StatusBadRequest, "guildId and entreprise are required")
		}
		if body.EmployeeCA < 0 || body.HoursWorked < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "employeeCA and hoursWorked must be non-negative")
		}

		pol, err := LoadPolicy(db, body.GuildID, body.Entreprise)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load company configuration")
		}

		hours := decimal.NewFromFloat(body.HoursWorked)
		if body.HoursWorked == 0 {
			hours = decimal.NewFromInt(payroll.DefaultHoursWorked)
		}
		res := payroll.ComputeSalary(payroll.RevenueRow{
			Run: decimal.NewFromFloat(body.EmployeeCA),
		}, hours, pol.Salary, pol.Grades, pol.Params, body.Grade)

		return c.JSON(fiber.Map{
			"ca_total":      res.CATotal.InexactFloat64(),
			"salaire_base":  res.Base.InexactFloat64(),
			"prime":         res.Prime.InexactFloat64(),
			"bonus":         res.Bonus.InexactFloat64(),
			"salaire_total": res.Total.InexactFloat64(),
		})
	}
}
