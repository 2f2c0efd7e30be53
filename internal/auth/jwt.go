package auth

import (
	"time"

	"flashback-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the Discord identity only. Roles are resolved per guild and
// per request from the synced role snapshot, never baked into the token.
type Claims struct {
	DiscordID string `json:"discord_id"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &Claims{
		DiscordID: user.DiscordID,
		Name:      user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
