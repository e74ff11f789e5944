// Package access answers every permission question in the system: which
// sections a role may open, which roles it may "view as", and which actions
// it may perform. All checks are pure lookups against static tables and
// fail closed on anything unknown. The UI and the HTTP layer must go
// through this package instead of re-deriving role logic.
package access

import "agency-backend/internal/models"

type SectionID string

const (
	SectionOverview      SectionID = "overview"
	SectionProjects      SectionID = "projects"
	SectionTasks         SectionID = "tasks"
	SectionLeads         SectionID = "leads"
	SectionFinance       SectionID = "finance"
	SectionSubscriptions SectionID = "subscriptions"
	SectionResources     SectionID = "resources"
	SectionFeed          SectionID = "feed"
	SectionTeam          SectionID = "team"
)

type ActionID string

const (
	ActionManageUsers         ActionID = "manage_users"
	ActionViewAuditLog        ActionID = "view_audit_log"
	ActionDeleteAnyPost       ActionID = "delete_any_post"
	ActionRecordTransaction   ActionID = "record_transaction"
	ActionManageSubscriptions ActionID = "manage_subscriptions"
	ActionExportReports       ActionID = "export_reports"
	ActionCreateProject       ActionID = "create_project"
	ActionCreateTask          ActionID = "create_task"
	ActionCreateLead          ActionID = "create_lead"
	ActionCreatePost          ActionID = "create_post"
	ActionCreateResource      ActionID = "create_resource"
)

// sectionTable lists the roles allowed into each section. The founder is
// not listed anywhere: CanAccessSection grants the founder everything
// regardless of the table. Team mirrors the manage_users action grant:
// whoever may manage accounts must also see the section.
var sectionTable = map[SectionID][]models.Role{
	SectionOverview:      {models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient},
	SectionProjects:      {models.RoleCTO, models.RoleDeveloper, models.RoleSales},
	SectionTasks:         {models.RoleCTO, models.RoleDeveloper},
	SectionLeads:         {models.RoleCTO, models.RoleSales},
	SectionFinance:       {models.RoleCFO},
	SectionSubscriptions: {models.RoleCTO, models.RoleCFO},
	SectionResources:     {models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales},
	SectionFeed:          {models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient},
	SectionTeam:          {models.RoleCTO},
}

type actionPolicy struct {
	roles []models.Role
	// When true the check runs against the account's original role, never
	// the view-as role. Set for anything that mutates other people's data
	// or money, so that "view as" can neither drop nor launder privileges.
	usesOriginalRole bool
}

var actionTable = map[ActionID]actionPolicy{
	ActionManageUsers:         {roles: []models.Role{models.RoleCTO}, usesOriginalRole: true},
	ActionViewAuditLog:        {roles: []models.Role{}, usesOriginalRole: true},
	ActionDeleteAnyPost:       {roles: []models.Role{}, usesOriginalRole: true},
	ActionRecordTransaction:   {roles: []models.Role{models.RoleCFO}, usesOriginalRole: true},
	ActionManageSubscriptions: {roles: []models.Role{models.RoleCTO, models.RoleCFO}, usesOriginalRole: true},
	ActionExportReports:       {roles: []models.Role{models.RoleCFO}, usesOriginalRole: true},
	ActionCreateProject:       {roles: []models.Role{models.RoleCTO}},
	ActionCreateTask:          {roles: []models.Role{models.RoleCTO, models.RoleDeveloper}},
	ActionCreateLead:          {roles: []models.Role{models.RoleCTO, models.RoleSales}},
	ActionCreatePost:          {roles: []models.Role{models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales}},
	ActionCreateResource:      {roles: []models.Role{models.RoleCTO, models.RoleDeveloper}},
}

// CanAccessSection reports whether a role may open a section. The founder
// may open everything. Unknown sections and invalid roles are denied.
func CanAccessSection(effective models.Role, section SectionID) bool {
	if !effective.Valid() {
		return false
	}
	if effective == models.RoleFounder {
		return true
	}
	allowed, ok := sectionTable[section]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == effective {
			return true
		}
	}
	return false
}

// AllowedImpersonationTargets returns the roles an account may "view as".
// Impersonation is strictly non-escalating: founder may view as anyone,
// CTO as anyone below founder, CFO as anyone below CTO, everyone else has
// no impersonation rights at all. A non-empty result always contains the
// original role itself.
func AllowedImpersonationTargets(original models.Role) []models.Role {
	switch original {
	case models.RoleFounder:
		return append([]models.Role{}, models.AllRoles...)
	case models.RoleCTO:
		return []models.Role{models.RoleCTO, models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient}
	case models.RoleCFO:
		return []models.Role{models.RoleCFO, models.RoleDeveloper, models.RoleSales, models.RoleClient}
	default:
		return nil
	}
}

// CanImpersonate reports whether original may view the UI as target.
func CanImpersonate(original, target models.Role) bool {
	if !target.Valid() {
		return false
	}
	for _, r := range AllowedImpersonationTargets(original) {
		if r == target {
			return true
		}
	}
	return false
}

// CanPerformAction checks an action against the policy table. Each policy
// decides whether the original or the effective role applies; callers pass
// both and never pick one themselves. Unknown actions are denied. The
// founder passes any known action.
func CanPerformAction(original, effective models.Role, action ActionID) bool {
	policy, ok := actionTable[action]
	if !ok {
		return false
	}

	role := effective
	if policy.usesOriginalRole {
		role = original
	}
	if !role.Valid() {
		return false
	}
	if role == models.RoleFounder {
		return true
	}
	for _, r := range policy.roles {
		if r == role {
			return true
		}
	}
	return false
}
