package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"resultroad/internal/adapters/email"
	"resultroad/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForReset defines the store interface needed by the reset flow.
type AccountStoreForReset interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	SaveResetToken(ctx context.Context, token account.ResetToken) error
	GetResetTokenByToken(ctx context.Context, token string) (account.ResetToken, error)
	InvalidateTokensForAccount(ctx context.Context, accountID string) error
}

// RequestResetInput carries input for the request-reset orchestrator.
type RequestResetInput struct {
	Email   string
	BaseURL string // e.g. https://app.resultroad.org.nz
}

// ResetDeps holds dependencies for the reset flow.
type ResetDeps struct {
	AccountStore AccountStoreForReset
	EmailSender  email.Sender
}

// resetTokenTTL is how long a reset link stays valid.
const resetTokenTTL = time.Hour

// ExecuteRequestPasswordReset issues a reset token and emails the
// link. It succeeds silently when no account matches the email, so the
// form cannot be used to probe which addresses are registered.
// PRE: none
// POST: A single-use token exists for the account, if one matched
func ExecuteRequestPasswordReset(ctx context.Context, input RequestResetInput, deps ResetDeps) error {
	if input.Email == "" {
		return nil
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "reset_requested", "email", input.Email, "matched", false)
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := account.ResetToken{
		ID:        uuid.New().String(),
		AccountID: acct.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := deps.AccountStore.SaveResetToken(ctx, token); err != nil {
		return err
	}

	link := input.BaseURL + "/reset-password?token=" + token.Token
	if _, err := deps.EmailSender.Send(ctx, email.PasswordResetRequest(acct.Email, link)); err != nil {
		// The token stays valid; the user can request another email.
		slog.Error("internal_error", "op", "request_reset", "step", "send_email", "account_id", acct.ID, "error", err)
		return err
	}

	slog.Info("auth_event", "event", "reset_requested", "email", input.Email, "matched", true)
	return nil
}

// CompleteResetInput carries input for the complete-reset orchestrator.
type CompleteResetInput struct {
	Token       string
	NewPassword string
}

// ExecuteCompletePasswordReset verifies a reset token and sets the new
// password. All outstanding tokens for the account are invalidated and
// any lockout is cleared.
// PRE: Token was issued by ExecuteRequestPasswordReset
// POST: Password updated; every token for the account is marked used
// INVARIANT: A token verifies at most once
func ExecuteCompletePasswordReset(ctx context.Context, input CompleteResetInput, deps ResetDeps) error {
	token, err := deps.AccountStore.GetResetTokenByToken(ctx, input.Token)
	if err != nil {
		return account.ErrResetTokenExpired
	}
	if token.Used {
		return account.ErrResetTokenUsed
	}
	if token.IsExpired(time.Now()) {
		return account.ErrResetTokenExpired
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return err
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	acct.ResetFailedLogins()
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}
	if err := deps.AccountStore.InvalidateTokensForAccount(ctx, acct.ID); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "reset_completed", "account_id", acct.ID)
	return nil
}
