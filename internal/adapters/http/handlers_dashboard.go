package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/csrf"

	"resultroad/internal/adapters/http/middleware"
	profilestore "resultroad/internal/adapters/storage/profile"
	"resultroad/internal/application/orchestrators"
	"resultroad/internal/application/projections"
	"resultroad/internal/domain/profile"
)

// handleDashboard renders the role dashboard behind the orientation
// gate: if a video is configured for the role and the user has not
// acknowledged it, the video page renders instead of the dashboard.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	gate := projections.QueryOrientationGate(r.Context(), session.AccountID, session.Role, projections.OrientationGateDeps{
		AcknowledgementStore: stores.AcknowledgementStore,
		VideoStore:           stores.VideoStore,
	})
	if gate.State == projections.GateLockedWithVideo {
		renderTemplate(w, r, "orientation.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Video":     gate.Video,
		})
		return
	}

	query := projections.GetDashboardQuery{AccountID: session.AccountID, Role: session.Role}
	deps := projections.GetDashboardDeps{
		AssignmentStore:   stores.AssignmentStore,
		ProgramStore:      stores.ProgramStore,
		SessionStore:      stores.GroupSessionStore,
		RegistrationStore: stores.RegistrationStore,
		ProfileStore:      stores.ProfileStore,
		SubmissionStore:   stores.SubmissionStore,
		AuditStore:        stores.AuditStore,
	}
	result, err := projections.QueryGetDashboard(r.Context(), query, deps, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Dashboard": result,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleAcknowledgeOrientation handles POST /orientation/acknowledge
func handleAcknowledgeOrientation(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.AcknowledgeOrientationInput{
		AccountID: session.AccountID,
		Role:      session.Role,
	}
	deps := orchestrators.AcknowledgeOrientationDeps{
		AcknowledgementStore: stores.AcknowledgementStore,
	}
	if err := orchestrators.ExecuteAcknowledgeOrientation(r.Context(), input, deps); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleSessions handles GET /sessions: upcoming sessions for any
// role, with registration state for participants.
func handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	upcoming, err := stores.GroupSessionStore.ListUpcoming(r.Context(), timeNow(), 50)
	if err != nil {
		internalError(w, err)
		return
	}

	registered := make(map[string]bool)
	counts := make(map[string]int)
	for _, s := range upcoming {
		if n, err := stores.RegistrationStore.CountBySession(r.Context(), s.ID); err == nil {
			counts[s.ID] = n
		}
	}
	if session.Role == profile.RoleParticipant {
		if regs, err := stores.RegistrationStore.ListByParticipant(r.Context(), session.AccountID); err == nil {
			for _, reg := range regs {
				registered[reg.SessionID] = true
			}
		}
	}

	renderTemplate(w, r, "sessions.html", map[string]any{
		"CSRFToken":  csrf.Token(r),
		"Sessions":   upcoming,
		"Registered": registered,
		"Counts":     counts,
	})
}

// handleRegisterSession handles POST /sessions/register
func handleRegisterSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Form error", http.StatusBadRequest)
		return
	}

	input := orchestrators.RegisterSessionInput{
		SessionID:     r.FormValue("SessionID"),
		ParticipantID: session.AccountID,
	}
	deps := orchestrators.RegisterSessionDeps{
		SessionStore:      stores.GroupSessionStore,
		RegistrationStore: stores.RegistrationStore,
	}
	if _, err := orchestrators.ExecuteRegisterForSession(r.Context(), input, deps); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/sessions", http.StatusSeeOther)
}

// handleCancelRegistration handles POST /sessions/cancel
func handleCancelRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Form error", http.StatusBadRequest)
		return
	}

	input := orchestrators.RegisterSessionInput{
		SessionID:     r.FormValue("SessionID"),
		ParticipantID: session.AccountID,
	}
	deps := orchestrators.RegisterSessionDeps{
		SessionStore:      stores.GroupSessionStore,
		RegistrationStore: stores.RegistrationStore,
	}
	if err := orchestrators.ExecuteCancelRegistration(r.Context(), input, deps); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/sessions", http.StatusSeeOther)
}

// handleMyPrograms handles GET /programs: a participant's assignments
// with their programs.
func handleMyPrograms(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	assignments, err := stores.AssignmentStore.ListByParticipant(r.Context(), session.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}
	rows := make([]projections.AssignmentWithProgram, 0, len(assignments))
	for _, a := range assignments {
		row := projections.AssignmentWithProgram{Assignment: a}
		if prog, err := stores.ProgramStore.GetByID(r.Context(), a.ProgramID); err == nil {
			row.Program = prog
		}
		rows = append(rows, row)
	}

	renderTemplate(w, r, "my_programs.html", map[string]any{
		"Assignments": rows,
	})
}

// handleParticipants handles GET /participants: the participant roster
// visible to instructors, support workers and admins. Instructors see
// only participants assigned to them; other roles see all active
// participants.
func handleParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	var participants []profile.Profile
	if session.Role == profile.RoleInstructor {
		assignments, err := stores.AssignmentStore.ListByInstructor(r.Context(), session.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		seen := make(map[string]bool)
		for _, a := range assignments {
			if seen[a.ParticipantID] {
				continue
			}
			seen[a.ParticipantID] = true
			if prof, err := stores.ProfileStore.GetByID(r.Context(), a.ParticipantID); err == nil {
				participants = append(participants, prof)
			}
		}
	} else {
		var err error
		participants, err = stores.ProfileStore.List(r.Context(), profileListFilterParticipants())
		if err != nil {
			internalError(w, err)
			return
		}
	}

	renderTemplate(w, r, "participants.html", map[string]any{
		"Participants": participants,
	})
}

func profileListFilterParticipants() profilestore.ListFilter {
	return profilestore.ListFilter{
		Role:   profile.RoleParticipant,
		Status: profile.StatusActive,
		Sort:   "name",
		Dir:    "asc",
	}
}
