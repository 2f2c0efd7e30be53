package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"flashback-backend/internal/config"
	"flashback-backend/internal/discord"
	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	CtxDiscordIDKey = "discord_id"
	CtxUserNameKey  = "user_name"
	CtxRoleKey      = "guild_role"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Malformed token claims")
		}

		c.Locals(CtxDiscordIDKey, claims.DiscordID)
		c.Locals(CtxUserNameKey, claims.Name)

		return c.Next()
	}
}

// DiscordID returns the authenticated caller's Discord id from the request
// context.
func DiscordID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(CtxDiscordIDKey).(string)
	if !ok || id == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "No authenticated identity")
	}
	return id, nil
}

// GuildGate performs a live membership check against Discord for the
// :guild_id route parameter. Upstream failures never grant access.
func GuildGate(dc *discord.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		if guildID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "guild_id is required")
		}
		discordID, err := DiscordID(c)
		if err != nil {
			return err
		}

		if _, err := dc.GuildMember(c.UserContext(), guildID, discordID); err != nil {
			if errors.Is(err, discord.ErrNotMember) {
				return fiber.NewError(fiber.StatusForbidden, "Not a member of this guild")
			}
			return fiber.NewError(fiber.StatusBadGateway, "Guild membership check failed")
		}
		return c.Next()
	}
}

// RequireGuildRole resolves the caller's role in the :guild_id guild from
// the synced role snapshot and rejects callers outside the allowed set.
func RequireGuildRole(db *gorm.DB, allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		if guildID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "guild_id is required")
		}
		discordID, err := DiscordID(c)
		if err != nil {
			return err
		}

		role, err := ResolveGuildRole(db, discordID, guildID)
		if err != nil {
			return err
		}

		for _, r := range allowed {
			if r == role {
				c.Locals(CtxRoleKey, role)
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient guild role")
	}
}

// RequireStaff guards the privileged guild-independent endpoints: the caller
// must hold the staff role in at least one synced guild.
func RequireStaff(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		discordID, err := DiscordID(c)
		if err != nil {
			return err
		}

		var snapshots []models.UserGuildRole
		if err := db.Where("discord_id = ?", discordID).Find(&snapshots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Role lookup failed")
		}
		for _, ugr := range snapshots {
			var roles []string
			if len(ugr.Roles) > 0 {
				if err := json.Unmarshal(ugr.Roles, &roles); err != nil {
					continue
				}
			}
			if discord.ResolveRole(roles) == models.RoleStaff {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Staff role required")
	}
}

// ResolveGuildRole loads the synced role names of one member and maps them
// to an access level. Unknown members get RoleNone.
func ResolveGuildRole(db *gorm.DB, discordID, guildID string) (models.Role, error) {
	var ugr models.UserGuildRole
	err := db.Where("discord_id = ? AND guild_id = ?", discordID, guildID).First(&ugr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, fiber.NewError(fiber.StatusInternalServerError, "Role lookup failed")
	}

	var roles []string
	if len(ugr.Roles) > 0 {
		if err := json.Unmarshal(ugr.Roles, &roles); err != nil {
			return models.RoleNone, fiber.NewError(fiber.StatusInternalServerError, "Corrupt role snapshot")
		}
	}
	return discord.ResolveRole(roles), nil
}
