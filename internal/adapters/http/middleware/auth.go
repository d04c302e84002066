package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	domainProfile "resultroad/internal/domain/profile"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session represents an authenticated session. Role and DisplayName
// are copied from the profile at login time and refreshed whenever the
// profile is saved, so an admin role change takes effect on the next
// session update rather than requiring re-login.
type Session struct {
	AccountID   string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   time.Time
}

// Decision is the outcome of the role gate for a request.
type Decision int

const (
	// DecisionAllow renders the protected content unmodified.
	DecisionAllow Decision = iota
	// DecisionSignIn means no authenticated session exists.
	DecisionSignIn
	// DecisionDeny means the session's role is not in the allow-set.
	DecisionDeny
)

// Decide is the role gate as a pure function: given the session state
// and an allow-set it returns the same Decision for the same inputs,
// with no side effects. A session with an empty role is treated as
// signed out for role purposes.
func Decide(sess Session, ok bool, allowed ...string) Decision {
	if !ok {
		return DecisionSignIn
	}
	if sess.Role == "" {
		return DecisionDeny
	}
	for _, role := range allowed {
		if sess.Role == role {
			return DecisionAllow
		}
	}
	return DecisionDeny
}

// SessionStore is an in-memory session store. It also fans out session
// change events to subscribers (see Subscribe).
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	subs     map[int]chan Session
	nextSub  int
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		subs:     make(map[int]chan Session),
	}
}

// Create stores a new session and returns the token.
// PRE: accountID and email are non-empty
// POST: Session is stored, token is returned, subscribers notified
func (ss *SessionStore) Create(accountID, email, displayName, role string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	sess := Session{
		AccountID:   accountID,
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now(),
	}
	ss.mu.Lock()
	ss.sessions[token] = sess
	ss.notifyLocked(sess)
	ss.mu.Unlock()
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	// Sessions expire after 24 hours
	if time.Since(session.CreatedAt) > 24*time.Hour {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// UpdateForAccount refreshes every live session belonging to an
// account, propagating role/status changes made out-of-band by admins.
// PRE: accountID is non-empty
// POST: Matching sessions carry the new display name and role
func (ss *SessionStore) UpdateForAccount(accountID, displayName, role string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for token, sess := range ss.sessions {
		if sess.AccountID != accountID {
			continue
		}
		sess.DisplayName = displayName
		sess.Role = role
		ss.sessions[token] = sess
		ss.notifyLocked(sess)
	}
}

// Subscribe registers for session change events (created or updated).
// Returns a receive channel and an unsubscribe function; callers must
// unsubscribe when the owning view is torn down.
func (ss *SessionStore) Subscribe() (<-chan Session, func()) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	id := ss.nextSub
	ss.nextSub++
	ch := make(chan Session, 16)
	ss.subs[id] = ch
	return ch, func() {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		if c, ok := ss.subs[id]; ok {
			delete(ss.subs, id)
			close(c)
		}
	}
}

// notifyLocked pushes a session event to subscribers without blocking.
// Callers must hold ss.mu.
func (ss *SessionStore) notifyLocked(sess Session) {
	for _, ch := range ss.subs {
		select {
		case ch <- sess:
		default:
		}
	}
}

const sessionCookieName = "resultroad_session"

// SecureCookies controls the Secure flag on session cookies.
// Set true in production (HTTPS only).
var SecureCookies = false

// Auth returns middleware that extracts the session from the cookie and sets it in context.
// It does NOT block unauthenticated requests — use RequireAuth or RequireRole for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that applies the role gate decision:
// no session redirects to sign-in, a role outside the allow-set gets
// an inline denial, and only an allowed role reaches the handler.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			switch Decide(session, ok, roles...) {
			case DecisionSignIn:
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			case DecisionDeny:
				http.Error(w, "You do not have access to this page", http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// IsRole checks if the current session has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	session, ok := GetSessionFromContext(ctx)
	return Decide(session, ok, roles...) == DecisionAllow
}

// IsAdmin checks if the current session is an admin.
func IsAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainProfile.RoleAdmin)
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
