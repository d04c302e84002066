package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "resultroad/internal/adapters/email"
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
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments set env vars directly.
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("RESULTROAD_DB", "resultroad.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	profStore := profileStore.NewSQLiteStore(timedDB)
	progStore := programStore.NewSQLiteStore(timedDB)
	vidStore := videoStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:         acctStore,
		ProfileStore:         profStore,
		ProgramStore:         progStore,
		AssignmentStore:      assignmentStore.NewSQLiteStore(timedDB),
		GroupSessionStore:    groupSessionStore.NewSQLiteStore(timedDB),
		RegistrationStore:    registrationStore.NewSQLiteStore(timedDB),
		VideoStore:           vidStore,
		AcknowledgementStore: acknowledgementStore.NewSQLiteStore(timedDB),
		SubmissionStore:      submissionStore.NewSQLiteStore(timedDB),
		AuditStore:           auditStore.NewSQLiteStore(timedDB),
	}

	// Seed the initial admin if no accounts exist
	adminEmail := envOrDefault("RESULTROAD_ADMIN_EMAIL", "admin@resultroad.org.nz")
	adminPassword := envOrDefault("RESULTROAD_ADMIN_PASSWORD", "Orca kayak sunrise")
	seedDeps := orchestrators.SeedDeps{
		AccountStore: acctStore,
		ProfileStore: profStore,
		ProgramStore: progStore,
		VideoStore:   vidStore,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Starter programs and orientation videos outside production
	if os.Getenv("RESULTROAD_ENV") != "production" {
		adminAcct, err := acctStore.GetByEmail(context.Background(), adminEmail)
		if err != nil {
			log.Fatalf("failed to load admin account for seeding: %v", err)
		}
		if err := orchestrators.ExecuteSeedDemoData(context.Background(), seedDeps, adminAcct.ID); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	// Configure email sender
	resendKey := os.Getenv("RESULTROAD_RESEND_KEY")
	emailFrom := envOrDefault("RESULTROAD_RESEND_FROM", "Result Road <noreply@resultroad.org.nz>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("RESULTROAD_ENV") == "production" {
			log.Println("WARNING: RESULTROAD_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set RESULTROAD_RESEND_KEY for real delivery)")
		}
	}

	web.BaseURL = envOrDefault("RESULTROAD_BASE_URL", "http://localhost:8080")

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("RESULTROAD_ADDR", ":8080")
	log.Printf("Result Road %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("RESULTROAD_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
