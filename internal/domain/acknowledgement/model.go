package acknowledgement

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyAccount = errors.New("account id cannot be empty")
	ErrEmptyRole    = errors.New("role cannot be empty")
)

// Acknowledgement records that an account completed the orientation
// video for a role. Keyed by (AccountID, Role); written once when the
// video finishes playing and never updated or expired afterwards.
// Its existence is the sole unlock condition for the orientation gate.
type Acknowledgement struct {
	ID        string
	AccountID string
	Role      string
	WatchedAt time.Time
}

// Validate checks if the Acknowledgement has valid data.
// PRE: Acknowledgement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Acknowledgement) Validate() error {
	if a.AccountID == "" {
		return ErrEmptyAccount
	}
	if a.Role == "" {
		return ErrEmptyRole
	}
	return nil
}
