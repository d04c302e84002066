package profile

import (
	"errors"
	"strings"
	"time"
)

// Role constants. This is the closed role enum used by validation and
// the role gate. The navigation table additionally knows "coordinator",
// which is deliberately absent here — see DESIGN.md.
const (
	RoleAdmin           = "admin"
	RoleParticipant     = "participant"
	RoleInstructor      = "instructor"
	RoleFitnessPartner  = "fitness_partner"
	RoleServiceProvider = "service_provider"
	RoleSupportWorker   = "support_worker"
)

// Profile status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{
	RoleAdmin,
	RoleParticipant,
	RoleInstructor,
	RoleFitnessPartner,
	RoleServiceProvider,
	RoleSupportWorker,
}

// Domain errors
var (
	ErrEmptyID       = errors.New("profile id cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrInvalidRole   = errors.New("role must be one of: admin, participant, instructor, fitness_partner, service_provider, support_worker")
	ErrInvalidStatus = errors.New("status must be one of: active, inactive, pending")
)

// Preferences holds per-user settings nested under the profile.
type Preferences struct {
	EmailNotifications bool
	Theme              string // "light" or "dark"
}

// Profile is the application's record about a user: role, status and
// display data, keyed by the account ID. Exactly one profile exists
// per account, created at sign-up; the application never deletes it.
type Profile struct {
	ID          string // equals the owning account ID
	Email       string
	DisplayName string
	Role        string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt time.Time
	Preferences Preferences
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if !IsValidRole(p.Role) {
		return ErrInvalidRole
	}
	if p.Status != StatusActive && p.Status != StatusInactive && p.Status != StatusPending {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the profile status is active.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsActive() bool {
	return p.Status == StatusActive
}

// IsAdmin returns true if the profile has admin role.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RecordLogin stamps the last-login time.
// PRE: Profile exists
// POST: LastLoginAt is set to now
func (p *Profile) RecordLogin(now time.Time) {
	p.LastLoginAt = now
}

// IsValidRole reports whether role is in the closed enum.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
