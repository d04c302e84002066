package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resultroad/internal/domain/account"
	"resultroad/internal/domain/profile"
)

// ProfileStoreForUpdate defines the profile store interface needed by UpdateProfile.
type ProfileStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// AccountStoreForUpdate defines the account store interface needed by UpdateProfile.
type AccountStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// UpdateProfileInput carries input for the update-profile orchestrator.
type UpdateProfileInput struct {
	AccountID          string
	DisplayName        string
	EmailNotifications bool
	Theme              string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	ProfileStore ProfileStoreForUpdate
	AccountStore AccountStoreForUpdate
}

var ErrNotAuthenticated = errors.New("you must be signed in to do that")

// ExecuteUpdateProfile saves display name and preference changes. The
// display name is mirrored onto the account record so both read models
// agree.
// PRE: AccountID belongs to an authenticated session
// POST: Profile and account carry the new display name; UpdatedAt stamped
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) error {
	if input.AccountID == "" {
		return ErrNotAuthenticated
	}

	prof, err := deps.ProfileStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return ErrProfileNotFound
	}

	if len(input.DisplayName) > account.MaxDisplayNameLength {
		return errors.New("display name cannot exceed 100 characters")
	}
	theme := input.Theme
	if theme != "light" && theme != "dark" {
		theme = "light"
	}

	prof.DisplayName = input.DisplayName
	prof.Preferences.EmailNotifications = input.EmailNotifications
	prof.Preferences.Theme = theme
	prof.UpdatedAt = time.Now()
	if err := prof.Validate(); err != nil {
		return err
	}
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return err
	}

	// Mirror the display name onto the account; a failure here is
	// logged but does not undo the profile change.
	if acct, err := deps.AccountStore.GetByID(ctx, input.AccountID); err == nil {
		acct.DisplayName = input.DisplayName
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("internal_error", "op", "update_profile", "step", "account_mirror", "account_id", input.AccountID, "error", err)
		}
	}

	slog.Info("profile_event", "event", "profile_updated", "account_id", input.AccountID)
	return nil
}
