package discord

import (
	"testing"

	"flashback-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractEnterprise(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{"rank prefix with dash", []string{"Patron - Uber Eats"}, "Uber Eats"},
		{"rank prefix with pipe", []string{"Employé | Bennys"}, "Bennys"},
		{"rank suffix", []string{"Uber Eats - Patron"}, "Uber Eats"},
		{"co-patron prefix", []string{"Co-Patron - Bahama Mamas"}, "Bahama Mamas"},
		{"dot prefix", []string{"DOT : Voirie"}, "Voirie"},
		{"short names are skipped", []string{"Emp - Ab"}, ""},
		{"plain rank roles yield nothing", []string{"Patron", "Staff"}, ""},
		{"fallback to non-rank role", []string{"@everyone", "Staff", "Weazel News"}, "Weazel News"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEnterprise(tt.roles))
		})
	}
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  models.Role
	}{
		{"staff wins over everything", []string{"Patron - Bennys", "Staff"}, models.RoleStaff},
		{"co-patron before patron", []string{"Co-Patron - Bennys"}, models.RoleCoPatron},
		{"copatron without dash", []string{"CoPatron Bennys"}, models.RoleCoPatron},
		{"patron", []string{"Patron - Bennys"}, models.RolePatron},
		{"dot", []string{"DOT Voirie"}, models.RoleDot},
		{"default employe", []string{"Weazel News"}, models.RoleEmploye},
		{"no roles", nil, models.RoleEmploye},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRole(tt.roles))
		})
	}
}
