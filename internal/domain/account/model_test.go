package account_test

import (
	"strings"
	"testing"
	"time"

	"resultroad/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{
			name: "valid account",
			account: account.Account{
				ID:          "1",
				Email:       "kai@resultroad.org.nz",
				DisplayName: "Kai Brown",
			},
			wantErr: false,
		},
		{
			name: "empty email",
			account: account.Account{
				ID: "2",
			},
			wantErr: true,
		},
		{
			name: "whitespace email",
			account: account.Account{
				ID:    "3",
				Email: "   ",
			},
			wantErr: true,
		},
		{
			name: "email without at sign",
			account: account.Account{
				ID:    "4",
				Email: "not-an-email",
			},
			wantErr: true,
		},
		{
			name: "email too long",
			account: account.Account{
				ID:    "5",
				Email: strings.Repeat("a", 250) + "@e.nz",
			},
			wantErr: true,
		},
		{
			name: "display name too long",
			account: account.Account{
				ID:          "6",
				Email:       "kai@resultroad.org.nz",
				DisplayName: strings.Repeat("x", 101),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword tests password hashing rules.
func TestAccount_SetPassword(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		wantErr   error
	}{
		{name: "valid password", plaintext: "correct horse battery", wantErr: nil},
		{name: "empty password", plaintext: "", wantErr: account.ErrEmptyPassword},
		{name: "too short", plaintext: "short", wantErr: account.ErrWeakPassword},
		{name: "nine characters", plaintext: "ninechars", wantErr: account.ErrWeakPassword},
		{name: "exactly ten characters", plaintext: "tencharss!", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := account.Account{Email: "kai@resultroad.org.nz"}
			err := a.SetPassword(tt.plaintext)
			if err != tt.wantErr {
				t.Fatalf("SetPassword() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && a.PasswordHash == "" {
				t.Error("expected PasswordHash to be set")
			}
			if tt.wantErr == nil && a.PasswordHash == tt.plaintext {
				t.Error("PasswordHash must not be the plaintext")
			}
		})
	}
}

// TestAccount_CheckPassword verifies round-trip and rejection.
func TestAccount_CheckPassword(t *testing.T) {
	a := account.Account{Email: "kai@resultroad.org.nz"}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}
	if err := a.CheckPassword("wrong password!"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	empty := account.Account{}
	if err := empty.CheckPassword("anything at all"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword for missing hash, got %v", err)
	}
}

// TestAccount_Lockout tests the failed-login counter and lockout window.
func TestAccount_Lockout(t *testing.T) {
	a := account.Account{Email: "kai@resultroad.org.nz"}

	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account should not lock before the fifth failure")
	}
	if a.FailedLogins != 4 {
		t.Errorf("FailedLogins = %d, want 4", a.FailedLogins)
	}

	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account should lock on the fifth failure")
	}
	if a.LockedUntil.Before(time.Now()) {
		t.Error("LockedUntil should be in the future")
	}

	a.ResetFailedLogins()
	if a.IsLocked() {
		t.Error("ResetFailedLogins should clear the lock")
	}
	if a.FailedLogins != 0 {
		t.Errorf("FailedLogins = %d after reset, want 0", a.FailedLogins)
	}
	if !a.LockedUntil.IsZero() {
		t.Error("LockedUntil should be zero after reset")
	}
}

// TestResetToken_IsExpired tests token expiry.
func TestResetToken_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	live := account.ResetToken{ExpiresAt: now.Add(time.Hour)}
	if live.IsExpired(now) {
		t.Error("token expiring in an hour should not be expired")
	}

	dead := account.ResetToken{ExpiresAt: now.Add(-time.Minute)}
	if !dead.IsExpired(now) {
		t.Error("token that expired a minute ago should be expired")
	}
}

// TestResetToken_Invalidate tests single-use marking.
func TestResetToken_Invalidate(t *testing.T) {
	tok := account.ResetToken{}
	if tok.Used {
		t.Fatal("new token should not be used")
	}
	tok.Invalidate()
	if !tok.Used {
		t.Error("Invalidate should mark the token used")
	}
}
