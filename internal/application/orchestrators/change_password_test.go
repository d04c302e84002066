package orchestrators

import (
	"context"
	"testing"

	"resultroad/internal/domain/account"
)

// TestExecuteChangePassword_Success tests a valid password change.
func TestExecuteChangePassword_Success(t *testing.T) {
	accounts := newMockAccountStore()
	seedLoginAccount(t, accounts, nil, "")

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "kererū over kaipara",
		NewPassword:     "a different password",
	}, ChangePasswordDeps{AccountStore: accounts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := accounts.accounts["acct-1"]
	if err := updated.CheckPassword("a different password"); err != nil {
		t.Error("new password does not verify")
	}
	if err := updated.CheckPassword("kererū over kaipara"); err == nil {
		t.Error("old password should no longer verify")
	}
}

// TestExecuteChangePassword_WrongCurrent tests that the current password gates the change.
func TestExecuteChangePassword_WrongCurrent(t *testing.T) {
	accounts := newMockAccountStore()
	seedLoginAccount(t, accounts, nil, "")

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "not my password",
		NewPassword:     "a different password",
	}, ChangePasswordDeps{AccountStore: accounts})
	if err != account.ErrWrongPassword {
		t.Errorf("error = %v, want ErrWrongPassword", err)
	}
}

// TestExecuteChangePassword_SamePassword tests the reuse guard.
func TestExecuteChangePassword_SamePassword(t *testing.T) {
	accounts := newMockAccountStore()
	seedLoginAccount(t, accounts, nil, "")

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "kererū over kaipara",
		NewPassword:     "kererū over kaipara",
	}, ChangePasswordDeps{AccountStore: accounts})
	if err != ErrSamePassword {
		t.Errorf("error = %v, want ErrSamePassword", err)
	}
}

// TestExecuteChangePassword_Unauthenticated tests the missing-account guard.
func TestExecuteChangePassword_Unauthenticated(t *testing.T) {
	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		CurrentPassword: "whatever it is",
		NewPassword:     "a different password",
	}, ChangePasswordDeps{AccountStore: newMockAccountStore()})
	if err != ErrNotAuthenticated {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}
