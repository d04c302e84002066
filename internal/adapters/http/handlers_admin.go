package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"

	"resultroad/internal/adapters/http/middleware"
	assignmentstore "resultroad/internal/adapters/storage/assignment"
	auditstore "resultroad/internal/adapters/storage/audit"
	profilestore "resultroad/internal/adapters/storage/profile"
	"resultroad/internal/application/listutil"
	"resultroad/internal/application/orchestrators"
	"resultroad/internal/application/projections"
	"resultroad/internal/domain/assignment"
	"resultroad/internal/domain/profile"
)

// handleAdminUsers handles GET /admin/users: the paged, filterable
// user management table.
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := listutil.Parse(r.URL.Query(), projections.UserListSortColumns, projections.UserListFilterKeys)
	result, err := projections.QueryGetUserList(r.Context(), params, stores.ProfileStore)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_users.html", map[string]any{
			"CSRFToken":      csrf.Token(r),
			"Users":          result.Users,
			"PageInfo":       result.PageInfo,
			"Sort":           params.Sort,
			"Dir":            params.Dir,
			"Search":         params.Search,
			"Role":           params.Filters["role"],
			"Status":         params.Filters["status"],
			"Roles":          profile.ValidRoles,
			"PerPageOptions": listutil.PerPageOptions,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleAdminSetRole handles POST /admin/users/role
func handleAdminSetRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Form error", http.StatusBadRequest)
		return
	}

	deps := orchestrators.ManageUserDeps{
		ProfileStore: stores.ProfileStore,
		AuditStore:   stores.AuditStore,
		Sessions:     sessions,
	}
	err := orchestrators.ExecuteSetUserRole(r.Context(),
		actorFromSession(session), r.FormValue("TargetID"), r.FormValue("Role"), deps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// handleAdminSetStatus handles POST /admin/users/status
func handleAdminSetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Form error", http.StatusBadRequest)
		return
	}

	deps := orchestrators.ManageUserDeps{
		ProfileStore: stores.ProfileStore,
		AuditStore:   stores.AuditStore,
		Sessions:     sessions,
	}
	err := orchestrators.ExecuteSetUserStatus(r.Context(),
		actorFromSession(session), r.FormValue("TargetID"), r.FormValue("Status"), deps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// handleAdminPrograms handles GET (list) and POST (create/update) for /admin/programs
func handleAdminPrograms(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == "GET" {
		programs, err := stores.ProgramStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "admin_programs.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Programs":  programs,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}
		weeks, _ := strconv.Atoi(r.FormValue("DurationWeeks"))
		input := orchestrators.SaveProgramInput{
			ID:            r.FormValue("ID"),
			Name:          r.FormValue("Name"),
			Description:   r.FormValue("Description"),
			Level:         r.FormValue("Level"),
			DurationWeeks: weeks,
			Actor:         actorFromSession(session),
		}
		deps := orchestrators.ManageProgramDeps{
			ProgramStore: stores.ProgramStore,
			SessionStore: stores.GroupSessionStore,
			VideoStore:   stores.VideoStore,
		}
		if _, err := orchestrators.ExecuteSaveProgram(r.Context(), input, deps); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/admin/programs", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminSessions handles GET (list) and POST (schedule) for /admin/sessions
func handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == "GET" {
		upcoming, err := stores.GroupSessionStore.ListUpcoming(r.Context(), timeNow(), 100)
		if err != nil {
			internalError(w, err)
			return
		}
		programs, err := stores.ProgramStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "admin_sessions.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Sessions":  upcoming,
			"Programs":  programs,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}
		startsAt, err := time.Parse("2006-01-02T15:04", r.FormValue("StartsAt"))
		if err != nil {
			http.Error(w, "Invalid start time", http.StatusBadRequest)
			return
		}
		endsAt, err := time.Parse("2006-01-02T15:04", r.FormValue("EndsAt"))
		if err != nil {
			http.Error(w, "Invalid end time", http.StatusBadRequest)
			return
		}
		capacity, _ := strconv.Atoi(r.FormValue("Capacity"))

		input := orchestrators.CreateSessionInput{
			ProgramID:    r.FormValue("ProgramID"),
			InstructorID: r.FormValue("InstructorID"),
			Name:         r.FormValue("Name"),
			Location:     r.FormValue("Location"),
			StartsAt:     startsAt,
			EndsAt:       endsAt,
			Capacity:     capacity,
			Actor:        actorFromSession(session),
		}
		deps := orchestrators.ManageProgramDeps{
			ProgramStore: stores.ProgramStore,
			SessionStore: stores.GroupSessionStore,
			VideoStore:   stores.VideoStore,
		}
		if _, err := orchestrators.ExecuteCreateSession(r.Context(), input, deps); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/admin/sessions", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminAssignments handles GET (list) and POST (assign) for /admin/assignments
func handleAdminAssignments(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == "GET" {
		programs, err := stores.ProgramStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		participants, err := stores.ProfileStore.List(r.Context(), profileListFilterParticipants())
		if err != nil {
			internalError(w, err)
			return
		}
		instructors, err := stores.ProfileStore.List(r.Context(), instructorListFilter())
		if err != nil {
			internalError(w, err)
			return
		}

		programNames := make(map[string]string, len(programs))
		for _, p := range programs {
			programNames[p.ID] = p.Name
		}
		participantNames := make(map[string]string, len(participants))
		for _, p := range participants {
			participantNames[p.ID] = p.DisplayName
		}

		rows := listAssignments(w, r)
		if rows == nil {
			return
		}

		renderTemplate(w, r, "admin_assignments.html", map[string]any{
			"CSRFToken":        csrf.Token(r),
			"Assignments":      rows,
			"Programs":         programs,
			"Participants":     participants,
			"Instructors":      instructors,
			"ProgramNames":     programNames,
			"ParticipantNames": participantNames,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}
		input := orchestrators.AssignProgramInput{
			ProgramID:     r.FormValue("ProgramID"),
			ParticipantID: r.FormValue("ParticipantID"),
			InstructorID:  r.FormValue("InstructorID"),
			Actor:         actorFromSession(session),
		}
		deps := assignDeps()
		if _, err := orchestrators.ExecuteAssignProgram(r.Context(), input, deps); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/admin/assignments", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminAssignmentStatus handles POST /admin/assignments/status
func handleAdminAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Form error", http.StatusBadRequest)
		return
	}

	input := orchestrators.UpdateAssignmentStatusInput{
		AssignmentID: r.FormValue("AssignmentID"),
		Target:       r.FormValue("Target"),
		Actor:        actorFromSession(session),
	}
	if err := orchestrators.ExecuteUpdateAssignmentStatus(r.Context(), input, assignDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/admin/assignments", http.StatusSeeOther)
}

// handleAdminVideos handles GET (list) and POST (set) for /admin/videos
func handleAdminVideos(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == "GET" {
		videos, err := stores.VideoStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "admin_videos.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Videos":    videos,
			"Roles":     profile.ValidRoles,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}
		input := orchestrators.SaveVideoInput{
			Role:  r.FormValue("Role"),
			Title: r.FormValue("Title"),
			URL:   r.FormValue("URL"),
			Actor: actorFromSession(session),
		}
		deps := orchestrators.ManageProgramDeps{
			ProgramStore: stores.ProgramStore,
			SessionStore: stores.GroupSessionStore,
			VideoStore:   stores.VideoStore,
		}
		if err := orchestrators.ExecuteSaveVideo(r.Context(), input, deps); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/admin/videos", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminSubmissions handles GET /admin/submissions: the review
// table plus the live feed snapshot for the page's stream script.
func handleAdminSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := listutil.Parse(r.URL.Query(), projections.SubmissionListSortColumns, projections.SubmissionListFilterKeys)
	deps := projections.SubmissionListDeps{
		SubmissionStore: stores.SubmissionStore,
		ProfileStore:    stores.ProfileStore,
	}
	result, err := projections.QueryGetSubmissionList(r.Context(), params, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_submissions.html", map[string]any{
			"CSRFToken":      csrf.Token(r),
			"Rows":           result.Rows,
			"PageInfo":       result.PageInfo,
			"Sort":           params.Sort,
			"Dir":            params.Dir,
			"Search":         params.Search,
			"Kind":           params.Filters["kind"],
			"PerPageOptions": listutil.PerPageOptions,
			"Feed":           feed.Merged(),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleAdminAudit handles GET /admin/audit
func handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := listutil.Parse(r.URL.Query(), nil, []string{"category"})
	filter := auditstore.ListFilter{Category: params.Filters["category"]}

	total, err := stores.AuditStore.Count(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	pageInfo := listutil.NewPageInfo(params.Page, params.PerPage, total)
	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()

	events, err := stores.AuditStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "admin_audit.html", map[string]any{
		"Events":   events,
		"PageInfo": pageInfo,
		"Category": params.Filters["category"],
	})
}

// handleAdminPerf handles GET /admin/perf: request and query timings
// from the in-memory collector.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	minutes, _ := strconv.Atoi(r.URL.Query().Get("minutes"))
	if minutes < 1 {
		minutes = 15
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	snapshot := perfCollector.Snapshot(since, 20)

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_perf.html", map[string]any{
			"Snapshot": snapshot,
			"Minutes":  minutes,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// listAssignments loads the assignment table rows, applying the
// status and program query filters. On error it writes the response
// and returns nil.
func listAssignments(w http.ResponseWriter, r *http.Request) []assignment.Assignment {
	filter := assignmentstore.ListFilter{
		ProgramID: r.URL.Query().Get("program"),
		Status:    r.URL.Query().Get("status"),
		Limit:     200,
	}
	rows, err := stores.AssignmentStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return nil
	}
	if rows == nil {
		rows = []assignment.Assignment{}
	}
	return rows
}

func assignDeps() orchestrators.AssignProgramDeps {
	return orchestrators.AssignProgramDeps{
		AssignmentStore: stores.AssignmentStore,
		ProgramStore:    stores.ProgramStore,
		ProfileStore:    stores.ProfileStore,
		AuditStore:      stores.AuditStore,
	}
}

func instructorListFilter() profilestore.ListFilter {
	return profilestore.ListFilter{
		Role:   profile.RoleInstructor,
		Status: profile.StatusActive,
		Sort:   "name",
		Dir:    "asc",
	}
}
