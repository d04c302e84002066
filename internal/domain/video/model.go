package video

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyRole = errors.New("video role cannot be empty")
	ErrEmptyURL  = errors.New("video url cannot be empty")
)

// Video is the orientation video configured for a role. At most one
// video is active per role; roles without one fall through the
// orientation gate unmodified.
type Video struct {
	ID        string
	Role      string
	Title     string
	URL       string
	CreatedBy string
	CreatedAt time.Time
}

// Validate checks if the Video has valid data.
// PRE: Video struct is populated
// POST: Returns nil if valid, error otherwise
func (v *Video) Validate() error {
	if strings.TrimSpace(v.Role) == "" {
		return ErrEmptyRole
	}
	if strings.TrimSpace(v.URL) == "" {
		return ErrEmptyURL
	}
	return nil
}
