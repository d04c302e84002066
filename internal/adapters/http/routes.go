package web

import (
	"net/http"

	"resultroad/internal/adapters/http/middleware"
	"resultroad/internal/application/projections"
	"resultroad/internal/domain/profile"
)

// requireOrientation bounces role content back to /dashboard while the
// orientation gate is locked for the session's role. The dashboard
// renders the video page, so the video stays in front of every gated
// route, not just the landing page.
func requireOrientation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := middleware.GetSessionFromContext(r.Context()); ok {
			gate := projections.QueryOrientationGate(r.Context(), session.AccountID, session.Role, projections.OrientationGateDeps{
				AcknowledgementStore: stores.AcknowledgementStore,
				VideoStore:           stores.VideoStore,
			})
			if gate.State == projections.GateLockedWithVideo {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// registerRoutes wires every route onto the mux. Role gating happens
// here, not inside handlers: a handler can assume the session role is
// one it was registered for.
func registerRoutes(mux *http.ServeMux) {
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	requireRole := func(h http.Handler, roles ...string) http.Handler {
		return middleware.RequireRole(roles...)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return requireRole(h, profile.RoleAdmin)
	}
	// Role content: authenticated, and behind the orientation video.
	gated := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(requireOrientation(h))
	}
	gatedRole := func(h http.HandlerFunc, roles ...string) http.Handler {
		return requireRole(requireOrientation(h), roles...)
	}

	// Public
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/forgot-password", handleForgotPassword)
	mux.HandleFunc("/reset-password", handleResetPassword)

	// Any signed-in role. The dashboard and the acknowledge endpoint
	// render/serve the gate themselves; profile and password management
	// stay reachable while the gate is locked.
	mux.Handle("/dashboard", requireAuth(handleDashboard))
	mux.Handle("/orientation/acknowledge", requireAuth(handleAcknowledgeOrientation))
	mux.Handle("/profile", requireAuth(handleProfile))
	mux.Handle("/change-password", requireAuth(handleChangePassword))
	mux.Handle("/sessions", gated(handleSessions))

	// Participants
	mux.Handle("/programs", gatedRole(handleMyPrograms, profile.RoleParticipant))
	mux.Handle("/sessions/register", gatedRole(handleRegisterSession, profile.RoleParticipant))
	mux.Handle("/sessions/cancel", gatedRole(handleCancelRegistration, profile.RoleParticipant))

	// Instructors, support workers and legacy coordinators
	mux.Handle("/participants", gatedRole(handleParticipants,
		profile.RoleInstructor, profile.RoleSupportWorker, "coordinator", profile.RoleAdmin))

	// Role-specific forms
	mux.Handle("/forms/feedback", gatedRole(handleFeedbackForm,
		profile.RoleParticipant, profile.RoleInstructor))
	mux.Handle("/forms/monitoring", gatedRole(handleMonitoringForm,
		profile.RoleFitnessPartner, profile.RoleServiceProvider))
	mux.Handle("/forms/progress", gatedRole(handleProgressForm,
		profile.RoleSupportWorker))

	// Admin
	mux.Handle("/admin/users", admin(handleAdminUsers))
	mux.Handle("/admin/users/role", admin(handleAdminSetRole))
	mux.Handle("/admin/users/status", admin(handleAdminSetStatus))
	mux.Handle("/admin/programs", admin(handleAdminPrograms))
	mux.Handle("/admin/sessions", admin(handleAdminSessions))
	mux.Handle("/admin/assignments", admin(handleAdminAssignments))
	mux.Handle("/admin/assignments/status", admin(handleAdminAssignmentStatus))
	mux.Handle("/admin/videos", admin(handleAdminVideos))
	mux.Handle("/admin/submissions", admin(handleAdminSubmissions))
	mux.Handle("/admin/submissions/live", admin(handleSubmissionsLive))
	mux.Handle("/admin/submissions/feed", admin(handleSubmissionsFeed))
	mux.Handle("/admin/audit", admin(handleAdminAudit))
	mux.Handle("/admin/perf", admin(handleAdminPerf))
}
