package submission

import (
	"errors"
	"strings"
	"time"
)

// Submission kind constants. Kind doubles as the live-feed source name
// for admin review views.
const (
	KindFeedback         = "feedback"
	KindMonitoring       = "monitoring"
	KindProgressOverview = "progress_overview"
)

// ValidKinds contains all valid kind values.
var ValidKinds = []string{KindFeedback, KindMonitoring, KindProgressOverview}

// Max length constants for user-editable fields.
const (
	MaxNotesLength = 4000
)

// Domain errors
var (
	ErrInvalidKind    = errors.New("kind must be one of: feedback, monitoring, progress_overview")
	ErrEmptySubmitter = errors.New("submitter id cannot be empty")
	ErrEmptyNotes     = errors.New("notes cannot be empty")
	ErrBadRating      = errors.New("rating must be between 1 and 5")
)

// Submission is a role-specific form submission: participant feedback,
// a support worker's monitoring form, or an instructor's progress
// overview. ProgramID is optional context.
type Submission struct {
	ID            string
	Kind          string
	SubmitterID   string
	SubmitterRole string
	ProgramID     string
	Rating        int // 1-5; 0 means not rated
	Notes         string
	CreatedAt     time.Time
}

// Validate checks if the Submission has valid data.
// PRE: Submission struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Submission) Validate() error {
	if !isValidKind(s.Kind) {
		return ErrInvalidKind
	}
	if s.SubmitterID == "" {
		return ErrEmptySubmitter
	}
	if strings.TrimSpace(s.Notes) == "" {
		return ErrEmptyNotes
	}
	if len(s.Notes) > MaxNotesLength {
		return errors.New("notes cannot exceed 4000 characters")
	}
	if s.Rating != 0 && (s.Rating < 1 || s.Rating > 5) {
		return ErrBadRating
	}
	return nil
}

func isValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}
