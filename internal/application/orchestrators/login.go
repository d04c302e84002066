package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resultroad/internal/domain/account"
	"resultroad/internal/domain/profile"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForLogin defines the profile store interface needed by Login.
type ProfileStoreForLogin interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID   string
	Email       string
	DisplayName string
	Role        string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	ProfileStore ProfileStoreForLogin
}

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrAccountDisabled    = errors.New("this account has been deactivated — contact an administrator")
	// ErrProfileNotFound is the orphan-account case: credentials are
	// valid but no profile row exists, so there is no role to gate on.
	ErrProfileNotFound = errors.New("no profile exists for this account — contact support")
)

// ExecuteLogin validates credentials, loads the profile and returns
// session data. A valid password is not enough: the profile must exist
// and be active before a session may be created.
// PRE: Valid email and password provided
// POST: Returns session data on success; records failed login on wrong password
// INVARIANT: Account must not be locked; profile must be active
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked() {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin()
		_ = deps.AccountStore.Save(ctx, acct)
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	prof, err := deps.ProfileStore.GetByID(ctx, acct.ID)
	if err != nil {
		slog.Warn("auth_event", "event", "login_blocked", "email", input.Email, "reason", "profile_missing", "account_id", acct.ID)
		return LoginResult{}, ErrProfileNotFound
	}

	if !prof.IsActive() {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "status_"+prof.Status)
		return LoginResult{}, ErrAccountDisabled
	}

	// Successful login — reset failed attempts and stamp the profile
	acct.ResetFailedLogins()
	_ = deps.AccountStore.Save(ctx, acct)
	prof.RecordLogin(time.Now())
	_ = deps.ProfileStore.Save(ctx, prof)

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "role", prof.Role)

	return LoginResult{
		AccountID:   acct.ID,
		Email:       acct.Email,
		DisplayName: prof.DisplayName,
		Role:        prof.Role,
	}, nil
}
