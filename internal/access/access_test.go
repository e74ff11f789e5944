package access

import (
	"testing"

	"agency-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccessSection_FounderSeesEverything(t *testing.T) {
	sections := []SectionID{
		SectionOverview, SectionProjects, SectionTasks, SectionLeads,
		SectionFinance, SectionSubscriptions, SectionResources, SectionFeed,
		SectionTeam,
	}
	for _, s := range sections {
		assert.True(t, CanAccessSection(models.RoleFounder, s), "founder should access %s", s)
	}
}

func TestCanAccessSection_Table(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		section SectionID
		want    bool
	}{
		{"cfo sees finance", models.RoleCFO, SectionFinance, true},
		{"developer blocked from finance", models.RoleDeveloper, SectionFinance, false},
		{"sales sees leads", models.RoleSales, SectionLeads, true},
		{"developer blocked from leads", models.RoleDeveloper, SectionLeads, false},
		{"client sees overview", models.RoleClient, SectionOverview, true},
		{"client blocked from projects", models.RoleClient, SectionProjects, false},
		{"cto sees team", models.RoleCTO, SectionTeam, true},
		{"cfo blocked from team", models.RoleCFO, SectionTeam, false},
		{"unknown section denied", models.RoleDeveloper, SectionID("nonexistent-section"), false},
		{"invalid role denied", models.Role("superuser"), SectionOverview, false},
		{"empty role denied", models.Role(""), SectionFeed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessSection(tt.role, tt.section))
		})
	}
}

// Whoever may manage users must also see the team section, otherwise the
// UI would hide endpoints the policy allows.
func TestTeamSectionMatchesManageUsers(t *testing.T) {
	for _, role := range models.AllRoles {
		if CanPerformAction(role, role, ActionManageUsers) {
			assert.True(t, CanAccessSection(role, SectionTeam),
				"%s manages users but cannot open team", role)
		}
	}
}

func TestAllowedImpersonationTargets(t *testing.T) {
	tests := []struct {
		role models.Role
		want []models.Role
	}{
		{models.RoleFounder, []models.Role{models.RoleFounder, models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient}},
		{models.RoleCTO, []models.Role{models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient}},
		{models.RoleCFO, []models.Role{models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient}},
		{models.RoleDeveloper, nil},
		{models.RoleSales, nil},
		{models.RoleClient, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedImpersonationTargets(tt.role))
		})
	}
}

// No role may ever impersonate a role above itself in the privilege order
// founder > cto > cfo > {developer, sales, client}.
func TestImpersonation_NeverEscalates(t *testing.T) {
	rank := map[models.Role]int{
		models.RoleFounder:   3,
		models.RoleCTO:       2,
		models.RoleCFO:       1,
		models.RoleDeveloper: 0,
		models.RoleSales:     0,
		models.RoleClient:    0,
	}

	for _, original := range models.AllRoles {
		for _, target := range AllowedImpersonationTargets(original) {
			assert.LessOrEqual(t, rank[target], rank[original],
				"%s must not impersonate %s", original, target)
		}
	}
}

func TestImpersonation_SelfIncludedWhenNonEmpty(t *testing.T) {
	for _, role := range models.AllRoles {
		targets := AllowedImpersonationTargets(role)
		if len(targets) == 0 {
			continue
		}
		assert.Contains(t, targets, role)
	}
}

func TestCanImpersonate(t *testing.T) {
	assert.True(t, CanImpersonate(models.RoleFounder, models.RoleClient))
	assert.True(t, CanImpersonate(models.RoleCTO, models.RoleDeveloper))
	assert.False(t, CanImpersonate(models.RoleCTO, models.RoleFounder))
	assert.False(t, CanImpersonate(models.RoleCFO, models.RoleCTO))
	assert.False(t, CanImpersonate(models.RoleDeveloper, models.RoleDeveloper))
	assert.False(t, CanImpersonate(models.RoleFounder, models.Role("bogus")))
}

func TestCanPerformAction_OriginalRoleWins(t *testing.T) {
	// A CTO viewing the UI as a developer keeps the right to manage users:
	// the policy checks the original role, not the impersonated one.
	require.True(t, CanPerformAction(models.RoleCTO, models.RoleDeveloper, ActionManageUsers))

	// The reverse laundering is impossible: a developer cannot gain
	// manage_users no matter what effective role is claimed.
	require.False(t, CanPerformAction(models.RoleDeveloper, models.RoleCTO, ActionManageUsers))
}

func TestCanPerformAction_Table(t *testing.T) {
	tests := []struct {
		name      string
		original  models.Role
		effective models.Role
		action    ActionID
		want      bool
	}{
		{"founder manages users", models.RoleFounder, models.RoleFounder, ActionManageUsers, true},
		{"founder viewing as client still manages users", models.RoleFounder, models.RoleClient, ActionManageUsers, true},
		{"only founder views audit log", models.RoleCTO, models.RoleCTO, ActionViewAuditLog, false},
		{"founder views audit log", models.RoleFounder, models.RoleClient, ActionViewAuditLog, true},
		{"cfo records transactions", models.RoleCFO, models.RoleCFO, ActionRecordTransaction, true},
		{"sales cannot record transactions", models.RoleSales, models.RoleSales, ActionRecordTransaction, false},
		{"sales creates leads", models.RoleSales, models.RoleSales, ActionCreateLead, true},
		{"founder viewing as developer loses lead button", models.RoleFounder, models.RoleDeveloper, ActionCreateLead, false},
		{"client cannot post", models.RoleClient, models.RoleClient, ActionCreatePost, false},
		{"developer posts", models.RoleDeveloper, models.RoleDeveloper, ActionCreatePost, true},
		{"unknown action denied", models.RoleFounder, models.RoleFounder, ActionID("launch_missiles"), false},
		{"invalid role denied", models.Role("ghost"), models.Role("ghost"), ActionCreatePost, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerformAction(tt.original, tt.effective, tt.action))
		})
	}
}
