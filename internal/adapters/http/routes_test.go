package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"resultroad/internal/adapters/http/middleware"
	"resultroad/internal/adapters/http/perf"
	"resultroad/internal/adapters/storage"
	accountStore "resultroad/internal/adapters/storage/account"
	acknowledgementStore "resultroad/internal/adapters/storage/acknowledgement"
	assignmentStore "resultroad/internal/adapters/storage/assignment"
	auditStore "resultroad/internal/adapters/storage/audit"
	groupSessionStore "resultroad/internal/adapters/storage/groupsession"
	profileStore "resultroad/internal/adapters/storage/profile"
	programStore "resultroad/internal/adapters/storage/program"
	registrationStore "resultroad/internal/adapters/storage/registration"
	submissionStore "resultroad/internal/adapters/storage/submission"
	videoStore "resultroad/internal/adapters/storage/video"
	"resultroad/internal/application/live"
	"resultroad/internal/application/orchestrators"
	"resultroad/internal/domain/profile"
)

// Templates load from paths relative to the project root, so tests run
// from there rather than from the package directory.
func TestMain(m *testing.M) {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("could not find project root (go.mod)")
		}
		dir = parent
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// routeEnv is a fully wired route table over a temp SQLite DB. The
// handler skips the CSRF and rate-limit layers so plain form POSTs work.
type routeEnv struct {
	handler       http.Handler
	db            *sql.DB
	adminID       string
	participantID string
}

const (
	routeAdminEmail    = "admin@test.com"
	routeAdminPassword = "TestPass123!"
)

func newRouteEnv(t *testing.T) *routeEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "routes.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	profStore := profileStore.NewSQLiteStore(db)
	progStore := programStore.NewSQLiteStore(db)
	vidStore := videoStore.NewSQLiteStore(db)
	stores = &Stores{
		AccountStore:         acctStore,
		ProfileStore:         profStore,
		ProgramStore:         progStore,
		AssignmentStore:      assignmentStore.NewSQLiteStore(db),
		GroupSessionStore:    groupSessionStore.NewSQLiteStore(db),
		RegistrationStore:    registrationStore.NewSQLiteStore(db),
		VideoStore:           vidStore,
		AcknowledgementStore: acknowledgementStore.NewSQLiteStore(db),
		SubmissionStore:      submissionStore.NewSQLiteStore(db),
		AuditStore:           auditStore.NewSQLiteStore(db),
	}
	sessions = middleware.NewSessionStore()
	feed = live.NewFeed()
	perfCollector = perf.NewCollector(perf.DefaultRingSize)

	ctx := context.Background()
	seedDeps := orchestrators.SeedDeps{
		AccountStore: acctStore,
		ProfileStore: profStore,
		ProgramStore: progStore,
		VideoStore:   vidStore,
	}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, routeAdminEmail, routeAdminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	admin, err := acctStore.GetByEmail(ctx, routeAdminEmail)
	if err != nil {
		t.Fatalf("failed to load seeded admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedDemoData(ctx, seedDeps, admin.ID); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	participantID, err := orchestrators.ExecuteSignUp(ctx, orchestrators.SignUpInput{
		Email:       "mere@test.com",
		Password:    "TestPass123!",
		DisplayName: "Mere Tahana",
		Role:        profile.RoleParticipant,
	}, orchestrators.SignUpDeps{AccountStore: acctStore, ProfileStore: profStore})
	if err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	return &routeEnv{
		handler:       middleware.Auth(sessions)(mux),
		db:            db,
		adminID:       admin.ID,
		participantID: participantID,
	}
}

// sessionCookie creates a live session for the account and returns its cookie.
func (env *routeEnv) sessionCookie(t *testing.T, accountID, email, name, role string) *http.Cookie {
	t.Helper()
	token, err := sessions.Create(accountID, email, name, role)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return &http.Cookie{Name: "resultroad_session", Value: token}
}

func (env *routeEnv) adminCookie(t *testing.T) *http.Cookie {
	return env.sessionCookie(t, env.adminID, routeAdminEmail, "Admin", profile.RoleAdmin)
}

func (env *routeEnv) participantCookie(t *testing.T) *http.Cookie {
	return env.sessionCookie(t, env.participantID, "mere@test.com", "Mere Tahana", profile.RoleParticipant)
}

// get performs a GET with a text/html Accept header.
func (env *routeEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Accept", "text/html")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form-urlencoded POST.
func (env *routeEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(b)
}

func TestLoginRoute(t *testing.T) {
	env := newRouteEnv(t)

	t.Run("Success", func(t *testing.T) {
		rec := env.postForm("/login", url.Values{
			"Email":    {routeAdminEmail},
			"Password": {routeAdminPassword},
		}, nil)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("expected redirect to /dashboard, got %q", loc)
		}
		found := false
		for _, c := range rec.Result().Cookies() {
			if c.Name == "resultroad_session" && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("expected a session cookie on successful login")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rec := env.postForm("/login", url.Values{
			"Email":    {routeAdminEmail},
			"Password": {"wrong-password-entirely"},
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected the form to re-render with 200, got %d", rec.Code)
		}
		if !strings.Contains(body(t, rec), "incorrect email or password") {
			t.Error("expected the login error message in the page")
		}
	})

	t.Run("SignedInGetRedirects", func(t *testing.T) {
		rec := env.get("/login", env.adminCookie(t))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
			t.Errorf("signed-in GET /login should redirect to /dashboard, got %d %q",
				rec.Code, rec.Header().Get("Location"))
		}
	})
}

func TestSignupRoute(t *testing.T) {
	env := newRouteEnv(t)

	t.Run("Success", func(t *testing.T) {
		rec := env.postForm("/signup", url.Values{
			"Email":       {"hemi@test.com"},
			"Password":    {"long enough phrase"},
			"DisplayName": {"Hemi Walker"},
			"Role":        {profile.RoleInstructor},
		}, nil)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d: %s", rec.Code, body(t, rec))
		}
		if loc := rec.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("expected redirect to /dashboard, got %q", loc)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		rec := env.postForm("/signup", url.Values{
			"Email":       {routeAdminEmail},
			"Password":    {"long enough phrase"},
			"DisplayName": {"Imposter"},
			"Role":        {profile.RoleParticipant},
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected the form to re-render with 200, got %d", rec.Code)
		}
		if !strings.Contains(body(t, rec), "already exists") {
			t.Error("expected the duplicate-email message in the page")
		}
	})

	t.Run("AdminRoleRejected", func(t *testing.T) {
		rec := env.postForm("/signup", url.Values{
			"Email":       {"sneaky@test.com"},
			"Password":    {"long enough phrase"},
			"DisplayName": {"Sneaky"},
			"Role":        {profile.RoleAdmin},
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected the form to re-render with 200, got %d", rec.Code)
		}
		if !strings.Contains(body(t, rec), profile.ErrInvalidRole.Error()) {
			t.Error("expected the invalid-role message in the page")
		}
	})
}

func TestRouteGates(t *testing.T) {
	env := newRouteEnv(t)

	t.Run("SignedOutRedirectsToLogin", func(t *testing.T) {
		for _, path := range []string{"/dashboard", "/profile", "/sessions", "/admin/users"} {
			rec := env.get(path, nil)
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
				t.Errorf("%s: expected 303 to /login, got %d %q",
					path, rec.Code, rec.Header().Get("Location"))
			}
		}
	})

	t.Run("ParticipantDeniedAdminPages", func(t *testing.T) {
		cookie := env.participantCookie(t)
		for _, path := range []string{"/admin/users", "/admin/audit", "/admin/submissions"} {
			rec := env.get(path, cookie)
			if rec.Code != http.StatusForbidden {
				t.Errorf("%s: expected 403, got %d", path, rec.Code)
			}
			if !strings.Contains(body(t, rec), "You do not have access") {
				t.Errorf("%s: expected access-denied message", path)
			}
		}
	})

	t.Run("ParticipantDeniedOtherRoleForms", func(t *testing.T) {
		cookie := env.participantCookie(t)
		for _, path := range []string{"/forms/monitoring", "/forms/progress"} {
			rec := env.get(path, cookie)
			if rec.Code != http.StatusForbidden {
				t.Errorf("%s: expected 403 for participant, got %d", path, rec.Code)
			}
		}
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		cookie := env.adminCookie(t)
		rec := env.get("/admin/users", cookie)
		if rec.Code != http.StatusOK {
			t.Errorf("/admin/users: expected 200 for admin, got %d", rec.Code)
		}
	})
}

func TestDashboardOrientationGate(t *testing.T) {
	env := newRouteEnv(t)
	cookie := env.participantCookie(t)

	rec := env.get("/dashboard", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := body(t, rec)
	if !strings.Contains(page, "I've watched the video") {
		t.Fatal("expected the orientation page before acknowledgement")
	}
	if !strings.Contains(page, `id="orientation-done" disabled`) {
		t.Error("acknowledge button should start disabled until playback ends")
	}

	rec = env.postForm("/orientation/acknowledge", url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard after acknowledge, got %d %q",
			rec.Code, rec.Header().Get("Location"))
	}

	rec = env.get("/dashboard", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(body(t, rec), "I've watched the video") {
		t.Error("orientation page should not render after acknowledgement")
	}
}

// TestOrientationGateBlocksRoleContent verifies that role content is
// unreachable while the orientation video is unwatched: every gated
// route bounces back to the dashboard, which renders the video page.
func TestOrientationGateBlocksRoleContent(t *testing.T) {
	env := newRouteEnv(t)
	cookie := env.participantCookie(t)

	locked := []string{"/forms/feedback", "/programs", "/sessions"}
	for _, path := range locked {
		rec := env.get(path, cookie)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
			t.Errorf("%s: expected 303 to /dashboard while locked, got %d %q",
				path, rec.Code, rec.Header().Get("Location"))
		}
	}

	// Profile and password management stay reachable while locked.
	rec := env.get("/profile", cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("/profile: expected 200 while locked, got %d", rec.Code)
	}

	rec = env.postForm("/orientation/acknowledge", url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("acknowledge: expected 303, got %d", rec.Code)
	}

	for _, path := range locked {
		rec := env.get(path, cookie)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 after acknowledgement, got %d", path, rec.Code)
		}
	}
}

func TestFeedbackFormRoute(t *testing.T) {
	env := newRouteEnv(t)
	cookie := env.participantCookie(t)

	if rec := env.postForm("/orientation/acknowledge", url.Values{}, cookie); rec.Code != http.StatusSeeOther {
		t.Fatalf("acknowledge: expected 303, got %d", rec.Code)
	}

	t.Run("RenderForm", func(t *testing.T) {
		rec := env.get("/forms/feedback", cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(body(t, rec), "Submit feedback") {
			t.Error("expected the feedback form in the page")
		}
	})

	t.Run("Submit", func(t *testing.T) {
		rec := env.postForm("/forms/feedback", url.Values{
			"Notes":  {"Loved the warm-up routine this week."},
			"Rating": {"4"},
		}, cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(body(t, rec), "your feedback has been recorded") {
			t.Error("expected the submission confirmation in the page")
		}
	})

	t.Run("EmptyNotesRejected", func(t *testing.T) {
		rec := env.postForm("/forms/feedback", url.Values{
			"Notes": {"   "},
		}, cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected the form to re-render with 200, got %d", rec.Code)
		}
		if strings.Contains(body(t, rec), "your feedback has been recorded") {
			t.Error("blank notes should not be recorded")
		}
	})
}

func TestAdminUsersJSON(t *testing.T) {
	env := newRouteEnv(t)

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(env.adminCookie(t))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	payload := body(t, rec)
	if !strings.Contains(payload, "mere@test.com") {
		t.Error("expected the participant row in the JSON user list")
	}
	if !strings.Contains(payload, routeAdminEmail) {
		t.Error("expected the admin row in the JSON user list")
	}
}

func TestLogoutRoute(t *testing.T) {
	env := newRouteEnv(t)
	cookie := env.adminCookie(t)

	rec := env.postForm("/logout", url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = env.get("/dashboard", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Error("session should be gone after logout")
	}
}
