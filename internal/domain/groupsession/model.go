package groupsession

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("session name cannot be empty")
	ErrEmptyProgram = errors.New("program id cannot be empty")
	ErrBadTimes     = errors.New("session must end after it starts")
	ErrBadCapacity  = errors.New("capacity must be at least 1")
)

// Session is a scheduled group fitness session within a program,
// run by an instructor at a location.
type Session struct {
	ID           string
	ProgramID    string
	InstructorID string
	Name         string
	Location     string
	StartsAt     time.Time
	EndsAt       time.Time
	Capacity     int
	CreatedAt    time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.ProgramID == "" {
		return ErrEmptyProgram
	}
	if !s.EndsAt.After(s.StartsAt) {
		return ErrBadTimes
	}
	if s.Capacity < 1 {
		return ErrBadCapacity
	}
	return nil
}

// IsUpcoming returns true if the session starts after now.
// INVARIANT: Session fields are not mutated
func (s *Session) IsUpcoming(now time.Time) bool {
	return s.StartsAt.After(now)
}
