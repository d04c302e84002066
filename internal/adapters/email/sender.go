// Package email sends transactional mail through Resend, with a noop
// implementation for development and tests.
package email

import (
	"context"
	"fmt"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Result Road <noreply@resultroad.org.nz>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // Reply-to address
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// PasswordResetRequest builds the password-reset email.
func PasswordResetRequest(to, resetLink string) SendRequest {
	html := fmt.Sprintf(`<p>Kia ora,</p>
<p>A password reset was requested for your Result Road account. The link below is valid for one hour and can be used once:</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
<p>— The Result Road team</p>`, resetLink)
	return SendRequest{
		To:      []string{to},
		Subject: "Reset your Result Road password",
		HTML:    html,
	}
}
