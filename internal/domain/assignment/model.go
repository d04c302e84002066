package assignment

import (
	"errors"
	"time"
)

// Assignment status constants
const (
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Domain errors
var (
	ErrEmptyProgram     = errors.New("program id cannot be empty")
	ErrEmptyParticipant = errors.New("participant id cannot be empty")
	ErrInvalidStatus    = errors.New("status must be one of: assigned, in_progress, completed")
	ErrAlreadyCompleted = errors.New("assignment is already completed")
	ErrNotStarted       = errors.New("assignment has not been started")
)

// Assignment links a participant to a program, optionally with a
// supervising instructor. Created by admins only.
type Assignment struct {
	ID            string
	ProgramID     string
	ParticipantID string
	InstructorID  string // optional
	Status        string
	AssignedBy    string // admin account ID
	AssignedAt    time.Time
	UpdatedAt     time.Time
}

// Validate checks if the Assignment has valid data.
// PRE: Assignment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Assignment) Validate() error {
	if a.ProgramID == "" {
		return ErrEmptyProgram
	}
	if a.ParticipantID == "" {
		return ErrEmptyParticipant
	}
	switch a.Status {
	case StatusAssigned, StatusInProgress, StatusCompleted:
		return nil
	}
	return ErrInvalidStatus
}

// Start transitions the assignment from assigned to in_progress.
// PRE: Status is assigned
// POST: Status is in_progress, UpdatedAt is stamped
func (a *Assignment) Start(now time.Time) error {
	if a.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	a.Status = StatusInProgress
	a.UpdatedAt = now
	return nil
}

// Complete transitions the assignment to completed.
// PRE: Status is in_progress
// POST: Status is completed, UpdatedAt is stamped
func (a *Assignment) Complete(now time.Time) error {
	if a.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if a.Status != StatusInProgress {
		return ErrNotStarted
	}
	a.Status = StatusCompleted
	a.UpdatedAt = now
	return nil
}
