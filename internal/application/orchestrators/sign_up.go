package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resultroad/internal/domain/account"
	"resultroad/internal/domain/profile"

	"github.com/google/uuid"
)

// AccountStoreForSignUp defines the store interface needed by SignUp.
type AccountStoreForSignUp interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForSignUp defines the profile store interface needed by SignUp.
type ProfileStoreForSignUp interface {
	Save(ctx context.Context, p profile.Profile) error
}

// SignUpInput carries input for the sign-up orchestrator.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	AccountStore AccountStoreForSignUp
	ProfileStore ProfileStoreForSignUp
}

var (
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	// ErrProfileSaveFailed means the account was created but the profile
	// write failed. The account exists without a profile until the user
	// retries; login reports ErrProfileNotFound for it in the meantime.
	ErrProfileSaveFailed = errors.New("account created but profile could not be saved — contact support")
)

// ExecuteSignUp creates an account and its profile in two steps.
// The two writes are deliberately not atomic: a failure after the
// account write leaves an orphan account, matching how the system has
// always behaved, and support resolves those manually.
// PRE: Valid email, password >= 10 chars, role in the closed enum
// POST: Account and profile created; profile status is active
// INVARIANT: Profile ID equals the account ID
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (string, error) {
	if !profile.IsValidRole(input.Role) {
		return "", profile.ErrInvalidRole
	}
	if input.Role == profile.RoleAdmin {
		// Admins are created by seeding or by another admin, never
		// through the public sign-up form.
		return "", profile.ErrInvalidRole
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:          uuid.New().String(),
		Email:       input.Email,
		DisplayName: input.DisplayName,
		CreatedAt:   time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	prof := profile.Profile{
		ID:          acct.ID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		Role:        input.Role,
		Status:      profile.StatusActive,
		CreatedAt:   acct.CreatedAt,
		UpdatedAt:   acct.CreatedAt,
		Preferences: profile.Preferences{EmailNotifications: true, Theme: "light"},
	}
	if err := prof.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProfileSaveFailed, err)
	}
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		slog.Error("internal_error", "op", "sign_up", "step", "profile_save", "account_id", acct.ID, "error", err)
		return "", ErrProfileSaveFailed
	}

	slog.Info("auth_event", "event", "sign_up", "email", input.Email, "role", input.Role)
	return acct.ID, nil
}
