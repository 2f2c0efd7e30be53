package main

import (
	"log"
	"log/slog"
	"strings"

	"flashback-backend/internal/archive"
	"flashback-backend/internal/auth"
	"flashback-backend/internal/blanchiment"
	"flashback-backend/internal/company"
	"flashback-backend/internal/config"
	"flashback-backend/internal/dashboard"
	"flashback-backend/internal/database"
	"flashback-backend/internal/discord"
	"flashback-backend/internal/discordconfig"
	"flashback-backend/internal/docs"
	"flashback-backend/internal/dotation"
	"flashback-backend/internal/enterprise"
	"flashback-backend/internal/logging"
	"flashback-backend/internal/models"
	"flashback-backend/internal/staff"
	"flashback-backend/internal/taxes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database: ", err)
	}
	dc := discord.NewClient(cfg)

	dotationSvc := dotation.NewService(db)
	dashboardSvc := dashboard.NewService(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"error":   e.Message,
				})
			}
			slog.Error("unexpected error", "path", c.Path(), "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Post("/auth/callback", auth.CallbackHandler(cfg, db, dc))

	// Everything below carries a JWT.
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))
	protected.Get("/guilds/:guild_id/roles/:user_id", auth.GuildRolesHandler(db))

	// Managers: roles allowed to change tenant state. Mutations also go
	// through the live guild membership check.
	managers := []models.Role{models.RoleStaff, models.RolePatron, models.RoleCoPatron, models.RoleDot}
	gate := auth.GuildGate(dc)
	manage := func(handlers ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{gate, auth.RequireGuildRole(db, managers...)}, handlers...)
	}

	// Dotation
	protected.Get("/dotation/:guild_id", dotation.GetHandler(dotationSvc))
	protected.Get("/dotation/:guild_id/export", dotation.ExportHandler(dotationSvc))
	protected.Post("/dotation/:guild_id", manage(dotation.SaveHandler(dotationSvc))...)

	// Dashboard (read-only, every member)
	protected.Get("/dashboard/summary/:guild_id", dashboard.SummaryHandler(dashboardSvc))
	protected.Get("/dashboard/employees/:guild_id", dashboard.EmployeeCountHandler(db))

	// Tax configuration
	protected.Get("/tax/brackets/:guild_id", taxes.GetBracketsHandler(db))
	protected.Post("/tax/brackets/:guild_id", manage(taxes.SaveBracketsHandler(db))...)
	protected.Get("/tax/wealth/:guild_id", taxes.WealthHandler(db))

	// Company configuration
	protected.Get("/company/config/:guild_id", company.GetConfigHandler(db))
	protected.Post("/company/config/:guild_id", manage(company.SaveConfigHandler(db))...)
	protected.Post("/salary/calculate", company.CalculateHandler(db))

	// Staff grid
	protected.Get("/staff/config/:guild_id", staff.GetConfigHandler(db))
	protected.Post("/staff/config/:guild_id", manage(staff.SaveConfigHandler(db))...)

	// Enterprise registry
	protected.Get("/enterprises/:guild_id", enterprise.ListHandler(db))
	protected.Post("/enterprises/:guild_id", manage(enterprise.CreateHandler(db))...)
	protected.Delete("/enterprises/:guild_id/:key", manage(enterprise.DeleteHandler(db))...)

	// Archive
	protected.Get("/archive/:guild_id", archive.ListHandler(db))
	protected.Post("/archive/:guild_id", manage(archive.AddHandler(db))...)

	// Blanchiment
	protected.Get("/blanchiment/state/:guild_id/:scope", blanchiment.GetStateHandler(db))
	protected.Post("/blanchiment/state/:guild_id/:scope", manage(blanchiment.SaveStateHandler(db))...)
	protected.Get("/blanchiment/global/:guild_id", blanchiment.GetGlobalHandler(db))
	protected.Post("/blanchiment/global/:guild_id", manage(blanchiment.SaveGlobalHandler(db))...)
	protected.Get("/blanchiment/split/:guild_id/:scope", blanchiment.SplitHandler(db))

	// Documents
	protected.Get("/documents/:guild_id", docs.ListHandler(db))
	protected.Get("/documents/:guild_id/:id", docs.DownloadHandler(db))
	protected.Post("/documents/:guild_id", manage(docs.UploadHandler(db))...)
	protected.Delete("/documents/:guild_id/:id", manage(docs.DeleteHandler(db))...)

	// Discord role mapping (staff only, stored opaque)
	protected.Get("/discord/config", auth.RequireStaff(db), discordconfig.GetHandler(db))
	protected.Post("/discord/config", auth.RequireStaff(db), discordconfig.SaveHandler(db))

	slog.Info("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
