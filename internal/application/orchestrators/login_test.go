package orchestrators

import (
	"context"
	"testing"
	"time"

	"resultroad/internal/domain/account"
	"resultroad/internal/domain/profile"
)

func seedLoginAccount(t *testing.T, accounts *mockAccountStore, profiles *mockProfileStore, status string) account.Account {
	t.Helper()

	acct := account.Account{
		ID:          "acct-1",
		Email:       "aroha@resultroad.org.nz",
		DisplayName: "Aroha Ngata",
		CreatedAt:   time.Now(),
	}
	if err := acct.SetPassword("kererū over kaipara"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	accounts.accounts[acct.ID] = acct

	if profiles != nil {
		profiles.profiles[acct.ID] = profile.Profile{
			ID:          acct.ID,
			Email:       acct.Email,
			DisplayName: acct.DisplayName,
			Role:        profile.RoleParticipant,
			Status:      status,
		}
	}
	return acct
}

// TestExecuteLogin_Success tests a login with valid credentials and an active profile.
func TestExecuteLogin_Success(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	seedLoginAccount(t, accounts, profiles, profile.StatusActive)

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "aroha@resultroad.org.nz",
		Password: "kererū over kaipara",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != "acct-1" {
		t.Errorf("AccountID = %q, want acct-1", result.AccountID)
	}
	if result.Role != profile.RoleParticipant {
		t.Errorf("Role = %q, want participant", result.Role)
	}
	if result.DisplayName != "Aroha Ngata" {
		t.Errorf("DisplayName = %q, want Aroha Ngata", result.DisplayName)
	}

	if profiles.profiles["acct-1"].LastLoginAt.IsZero() {
		t.Error("expected LastLoginAt to be stamped on success")
	}
}

// TestExecuteLogin_WrongPassword tests that a wrong password is counted.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	seedLoginAccount(t, accounts, profiles, profile.StatusActive)

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "aroha@resultroad.org.nz",
		Password: "definitely wrong",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != ErrInvalidCredentials {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if got := accounts.accounts["acct-1"].FailedLogins; got != 1 {
		t.Errorf("FailedLogins = %d, want 1", got)
	}
}

// TestExecuteLogin_UnknownEmail tests that a missing account looks like bad credentials.
func TestExecuteLogin_UnknownEmail(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "nobody@resultroad.org.nz",
		Password: "whatever it is",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != ErrInvalidCredentials {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

// TestExecuteLogin_LockedAccount tests that a locked account cannot sign in
// even with the right password.
func TestExecuteLogin_LockedAccount(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	acct := seedLoginAccount(t, accounts, profiles, profile.StatusActive)
	acct.LockedUntil = time.Now().Add(10 * time.Minute)
	accounts.accounts[acct.ID] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "aroha@resultroad.org.nz",
		Password: "kererū over kaipara",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != ErrAccountLocked {
		t.Errorf("error = %v, want ErrAccountLocked", err)
	}
}

// TestExecuteLogin_OrphanAccount tests that valid credentials without a
// profile row cannot produce a session.
func TestExecuteLogin_OrphanAccount(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	seedLoginAccount(t, accounts, nil, "")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "aroha@resultroad.org.nz",
		Password: "kererū over kaipara",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != ErrProfileNotFound {
		t.Errorf("error = %v, want ErrProfileNotFound", err)
	}
}

// TestExecuteLogin_InactiveProfile tests that a deactivated profile blocks login.
func TestExecuteLogin_InactiveProfile(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	seedLoginAccount(t, accounts, profiles, profile.StatusInactive)

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "aroha@resultroad.org.nz",
		Password: "kererū over kaipara",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != ErrAccountDisabled {
		t.Errorf("error = %v, want ErrAccountDisabled", err)
	}
}

// TestExecuteLogin_SuccessResetsFailures tests the counter reset on success.
func TestExecuteLogin_SuccessResetsFailures(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	acct := seedLoginAccount(t, accounts, profiles, profile.StatusActive)
	acct.FailedLogins = 3
	accounts.accounts[acct.ID] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "aroha@resultroad.org.nz",
		Password: "kererū over kaipara",
	}, LoginDeps{AccountStore: accounts, ProfileStore: profiles})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := accounts.accounts["acct-1"].FailedLogins; got != 0 {
		t.Errorf("FailedLogins = %d after success, want 0", got)
	}
}

// TestExecuteLogin_EmptyInput tests that blank credentials are rejected outright.
func TestExecuteLogin_EmptyInput(t *testing.T) {
	_, err := ExecuteLogin(context.Background(), LoginInput{}, LoginDeps{
		AccountStore: newMockAccountStore(),
		ProfileStore: newMockProfileStore(),
	})
	if err != ErrInvalidCredentials {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}
