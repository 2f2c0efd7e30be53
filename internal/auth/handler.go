package auth

import (
	"encoding/json"
	"log/slog"

	"flashback-backend/internal/config"
	"flashback-backend/internal/discord"
	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CallbackRequest struct {
	Code        string `json:"code" form:"code"`
	RedirectURI string `json:"redirect_uri" form:"redirect_uri"`
}

// CallbackHandler finishes the Discord OAuth flow: code exchange, identity
// fetch, guild/role sync, then a signed session token.
func CallbackHandler(cfg *config.Config, db *gorm.DB, dc *discord.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CallbackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Code == "" || body.RedirectURI == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code and redirect_uri are required")
		}

		ctx := c.UserContext()

		token, err := dc.ExchangeCode(ctx, body.Code, body.RedirectURI)
		if err != nil {
			slog.Error("oauth code exchange failed", "err", err)
			return fiber.NewError(fiber.StatusBadGateway, "Failed to exchange code for token")
		}

		info, err := dc.CurrentUser(ctx, token.AccessToken)
		if err != nil {
			slog.Error("oauth identity fetch failed", "err", err)
			return fiber.NewError(fiber.StatusBadGateway, "Failed to authenticate user")
		}

		user := models.User{
			DiscordID:     info.ID,
			Name:          info.Username,
			Avatar:        info.Avatar,
			Discriminator: info.Discriminator,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "avatar", "discriminator", "updated_at"}),
		}).Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to store user")
		}

		guilds := syncUserGuilds(c, db, dc, token.AccessToken, info.ID)

		signed, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to issue session token")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"token":   signed,
			"user":    user,
			"guilds":  guilds,
		})
	}
}

// syncUserGuilds refreshes the guild list and per-guild role snapshot. A
// guild whose member/role lookup fails is skipped, not fatal: the bot may
// simply not be invited there.
func syncUserGuilds(c *fiber.Ctx, db *gorm.DB, dc *discord.Client, accessToken, discordID string) []models.Guild {
	ctx := c.UserContext()

	guildInfos, err := dc.CurrentUserGuilds(ctx, accessToken)
	if err != nil {
		slog.Warn("guild list fetch failed", "discord_id", discordID, "err", err)
		return nil
	}

	synced := make([]models.Guild, 0, len(guildInfos))
	for _, gi := range guildInfos {
		guild := models.Guild{
			DiscordGuildID: gi.ID,
			Name:           gi.Name,
			Icon:           gi.Icon,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "updated_at"}),
		}).Create(&guild).Error; err != nil {
			slog.Warn("guild upsert failed", "guild_id", gi.ID, "err", err)
			continue
		}
		synced = append(synced, guild)

		member, err := dc.GuildMember(ctx, gi.ID, discordID)
		if err != nil {
			continue
		}
		guildRoles, err := dc.GuildRoles(ctx, gi.ID)
		if err != nil {
			continue
		}

		nameByID := make(map[string]string, len(guildRoles))
		for _, r := range guildRoles {
			nameByID[r.ID] = r.Name
		}
		roleNames := make([]string, 0, len(member.Roles))
		for _, id := range member.Roles {
			if name, ok := nameByID[id]; ok {
				roleNames = append(roleNames, name)
			} else {
				roleNames = append(roleNames, id)
			}
		}

		var entreprise *string
		if name := discord.ExtractEnterprise(roleNames); name != "" {
			entreprise = &name
		}

		rolesJSON, _ := json.Marshal(roleNames)
		ugr := models.UserGuildRole{
			DiscordID:  discordID,
			GuildID:    gi.ID,
			Roles:      rolesJSON,
			Entreprise: entreprise,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}, {Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"roles", "entreprise", "updated_at"}),
		}).Create(&ugr).Error; err != nil {
			slog.Warn("role snapshot upsert failed", "guild_id", gi.ID, "err", err)
		}
	}
	return synced
}

// MeHandler returns the authenticated user and their synced guild roles.
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		discordID, err := DiscordID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := db.Where("discord_id = ?", discordID).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var guildRoles []models.UserGuildRole
		db.Where("discord_id = ?", discordID).Find(&guildRoles)

		return c.JSON(fiber.Map{
			"user":        user,
			"guild_roles": guildRoles,
		})
	}
}

// GuildRolesHandler resolves one member's snapshot in one guild.
// GET /api/guilds/:guild_id/roles/:user_id
func GuildRolesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		userID := c.Params("user_id")

		var ugr models.UserGuildRole
		err := db.Where("discord_id = ? AND guild_id = ?", userID, guildID).First(&ugr).Error
		if err != nil {
			return c.JSON(fiber.Map{"roles": []string{}, "entreprise": nil})
		}

		var roles []string
		if len(ugr.Roles) > 0 {
			if err := json.Unmarshal(ugr.Roles, &roles); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Corrupt role snapshot")
			}
		}

		return c.JSON(fiber.Map{
			"roles":         roles,
			"entreprise":    ugr.Entreprise,
			"resolved_role": discord.ResolveRole(roles),
		})
	}
}
