package registration

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptySession     = errors.New("session id cannot be empty")
	ErrEmptyParticipant = errors.New("participant id cannot be empty")
)

// Registration records that a participant signed up for a group
// session. At most one registration exists per (session, participant).
type Registration struct {
	ID            string
	SessionID     string
	ParticipantID string
	RegisteredAt  time.Time
}

// Validate checks if the Registration has valid data.
// PRE: Registration struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Registration) Validate() error {
	if r.SessionID == "" {
		return ErrEmptySession
	}
	if r.ParticipantID == "" {
		return ErrEmptyParticipant
	}
	return nil
}
