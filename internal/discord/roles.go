package discord

import (
	"regexp"
	"strings"

	"flashback-backend/internal/models"
)

// Role name parsing. Enterprise membership is encoded in free-form Discord
// role names like "Patron - Uber Eats" or "Bennys | Employé"; the patterns
// below strip the rank token and keep the enterprise part.

const sep = `[\s\-\|•:]+`

var (
	leadPattern  = regexp.MustCompile(`(?i)^(?:employ[eé]|emp|co[-\s]?patron|copatron|patron|dot)` + sep + `(.+)$`)
	trailPattern = regexp.MustCompile(`(?i)^(.+?)` + sep + `(?:employ[eé]|emp|co[-\s]?patron|copatron|patron|dot)$`)
	coOnly       = regexp.MustCompile(`(?i)^co$`)
	coPatron     = regexp.MustCompile(`(?i)co[-\s]?patron|copatron`)
)

var bannedTokens = []string{
	"staff", "patron", "co-patron", "co patron", "copatron",
	"employe", "employé", "emp", "dot",
	"@everyone", "everyone", "bot",
}

// ExtractEnterprise pulls an enterprise name out of a member's role names.
// Returns "" when none of the roles look like an enterprise role.
func ExtractEnterprise(roles []string) string {
	for _, role := range roles {
		normalized := strings.TrimSpace(role)

		if m := leadPattern.FindStringSubmatch(normalized); m != nil {
			if name := strings.TrimSpace(m[1]); len(name) >= 3 && !coOnly.MatchString(name) {
				return name
			}
		}
		if m := trailPattern.FindStringSubmatch(normalized); m != nil {
			if name := strings.TrimSpace(m[1]); len(name) >= 3 && !coOnly.MatchString(name) {
				return name
			}
		}
	}

	// Fallback: the first role that is not a plain rank/system role.
	for _, role := range roles {
		trimmed := strings.TrimSpace(role)
		lower := strings.ToLower(trimmed)
		banned := false
		for _, token := range bannedTokens {
			if strings.Contains(lower, token) {
				banned = true
				break
			}
		}
		if !banned && len(trimmed) >= 2 {
			return trimmed
		}
	}
	return ""
}

// ResolveRole maps a member's role names to an access level. Co-patron is
// checked before patron because every co-patron role name also contains
// "patron".
func ResolveRole(roles []string) models.Role {
	for _, role := range roles {
		if strings.Contains(strings.ToLower(role), "staff") {
			return models.RoleStaff
		}
	}
	for _, role := range roles {
		if coPatron.MatchString(role) {
			return models.RoleCoPatron
		}
	}
	for _, role := range roles {
		if strings.Contains(strings.ToLower(role), "patron") {
			return models.RolePatron
		}
	}
	for _, role := range roles {
		if strings.Contains(strings.ToLower(role), "dot") {
			return models.RoleDot
		}
	}
	return models.RoleEmploye
}
