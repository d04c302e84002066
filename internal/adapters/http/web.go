package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"
	"net/http"
	"os"

	"resultroad/internal/adapters/email"
	"resultroad/internal/adapters/http/middleware"
	"resultroad/internal/adapters/http/perf"
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
	"resultroad/internal/domain/submission"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore         accountStore.Store
	ProfileStore         profileStore.Store
	ProgramStore         programStore.Store
	AssignmentStore      assignmentStore.Store
	GroupSessionStore    groupSessionStore.Store
	RegistrationStore    registrationStore.Store
	VideoStore           videoStore.Store
	AcknowledgementStore acknowledgementStore.Store
	SubmissionStore      submissionStore.Store
	AuditStore           auditStore.Store
}

// loadCSRFKey reads the CSRF secret from RESULTROAD_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("RESULTROAD_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("RESULTROAD_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("RESULTROAD_ENV") == "production" {
		log.Fatal("RESULTROAD_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set RESULTROAD_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global live submissions feed (set by NewMux)
var feed *live.Feed

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10.0

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender = email.NewNoopSender()

// BaseURL is the externally visible origin used in emailed links.
var BaseURL = "http://localhost:8080"

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	feed = live.NewFeed()
	middleware.SecureCookies = os.Getenv("RESULTROAD_ENV") == "production"

	primeFeed()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	secure := os.Getenv("RESULTROAD_ENV") == "production"
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, RateLimitPerSecond*2)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, secure),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// primeFeed loads the initial per-kind snapshots so the live review
// page is populated before the first submission after startup.
func primeFeed() {
	deps := orchestrators.SubmitFormDeps{SubmissionStore: stores.SubmissionStore, Feed: feed}
	for _, kind := range submission.ValidKinds {
		if err := orchestrators.RefreshFeedKind(context.Background(), kind, deps); err != nil {
			slog.Error("internal_error", "op", "prime_feed", "kind", kind, "error", err)
		}
	}
}
