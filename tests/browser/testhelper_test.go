package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "resultroad/internal/adapters/http"
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
	"resultroad/internal/application/orchestrators"
	"resultroad/internal/domain/profile"
)

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!"

	participantEmail    = "participant@test.com"
	participantPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL       string
	DB            *sql.DB
	Server        *http.Server
	PW            *playwright.Playwright
	Browser       playwright.Browser
	Stores        *web.Stores
	AdminID       string
	ParticipantID string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	profStore := profileStore.NewSQLiteStore(db)
	progStore := programStore.NewSQLiteStore(db)
	vidStore := videoStore.NewSQLiteStore(db)
	stores := &web.Stores{
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

	ctx := context.Background()
	seedDeps := orchestrators.SeedDeps{
		AccountStore: acctStore,
		ProfileStore: profStore,
		ProgramStore: progStore,
		VideoStore:   vidStore,
	}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	admin, err := acctStore.GetByEmail(ctx, adminEmail)
	if err != nil {
		t.Fatalf("failed to load seeded admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedDemoData(ctx, seedDeps, admin.ID); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	participantID, err := orchestrators.ExecuteSignUp(ctx, orchestrators.SignUpInput{
		Email:       participantEmail,
		Password:    participantPassword,
		DisplayName: "Test Participant",
		Role:        profile.RoleParticipant,
	}, orchestrators.SignUpDeps{AccountStore: acctStore, ProfileStore: profStore})
	if err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	mux := web.NewMux("static", stores, perf.NewCollector(perf.DefaultRingSize))
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL:       baseURL,
		DB:            db,
		Server:        srv,
		PW:            pw,
		Browser:       browser,
		Stores:        stores,
		AdminID:       admin.ID,
		ParticipantID: participantID,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the login form. The landing page depends on
// the orientation gate, so callers assert the destination themselves.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// completeOrientation finishes the orientation video and acknowledges
// it. The seeded media host is not reachable from tests, so playback
// completion is signalled by dispatching the ended event directly.
func (a *testApp) completeOrientation(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Evaluate(`document.getElementById("orientation-video").dispatchEvent(new Event("ended"))`); err != nil {
		t.Fatalf("failed to finish orientation video: %v", err)
	}
	if err := page.Locator("#orientation-done").Click(); err != nil {
		t.Fatalf("failed to click acknowledge button: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("acknowledge did not return to dashboard: %v", err)
	}
}

// loginAdmin signs in as the seeded admin.
func (a *testApp) loginAdmin(t *testing.T, page playwright.Page) {
	t.Helper()
	a.login(t, page, adminEmail, adminPassword)
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
