// Package navigation maps roles to their sidebar items and page
// titles. The table is the single source of truth for what each role
// sees in the shell around the dashboard pages.
package navigation

import "resultroad/internal/domain/profile"

// Item is a single sidebar entry.
type Item struct {
	Label string
	Path  string
	Icon  string // icon name resolved by the layout template
}

// navTable maps each role to its sidebar items. Order matters; the
// dashboard link always comes first.
// Note: the coordinator row predates the current role list and is kept
// so existing coordinator profiles still get a sidebar.
var navTable = map[string][]Item{
	profile.RoleAdmin: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Users", Path: "/admin/users", Icon: "users"},
		{Label: "Programs", Path: "/admin/programs", Icon: "clipboard"},
		{Label: "Sessions", Path: "/admin/sessions", Icon: "calendar"},
		{Label: "Submissions", Path: "/admin/submissions", Icon: "inbox"},
		{Label: "Videos", Path: "/admin/videos", Icon: "film"},
		{Label: "Audit Log", Path: "/admin/audit", Icon: "shield"},
		{Label: "Performance", Path: "/admin/perf", Icon: "activity"},
	},
	profile.RoleParticipant: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "My Programs", Path: "/programs", Icon: "clipboard"},
		{Label: "Sessions", Path: "/sessions", Icon: "calendar"},
		{Label: "Feedback", Path: "/forms/feedback", Icon: "message"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	},
	profile.RoleInstructor: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "My Participants", Path: "/participants", Icon: "users"},
		{Label: "Sessions", Path: "/sessions", Icon: "calendar"},
		{Label: "Feedback", Path: "/forms/feedback", Icon: "message"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	},
	profile.RoleFitnessPartner: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Sessions", Path: "/sessions", Icon: "calendar"},
		{Label: "Monitoring", Path: "/forms/monitoring", Icon: "chart"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	},
	profile.RoleServiceProvider: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Monitoring", Path: "/forms/monitoring", Icon: "chart"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	},
	profile.RoleSupportWorker: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Participants", Path: "/participants", Icon: "users"},
		{Label: "Progress", Path: "/forms/progress", Icon: "chart"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	},
	"coordinator": {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Participants", Path: "/participants", Icon: "users"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	},
}

// ItemsFor returns the sidebar items for a role. Unrecognized roles
// get an empty list, never a panic.
func ItemsFor(role string) []Item {
	return navTable[role]
}

// PageTitle returns the sidebar label matching the given path within
// the role's items, falling back to "Overview" when no item matches.
func PageTitle(role, path string) string {
	for _, item := range ItemsFor(role) {
		if item.Path == path {
			return item.Label
		}
	}
	return "Overview"
}
