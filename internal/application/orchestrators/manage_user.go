package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resultroad/internal/domain/audit"
	"resultroad/internal/domain/profile"
)

// ProfileStoreForManage defines the profile store interface needed here.
type ProfileStoreForManage interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// AuditStoreForManage defines the audit store interface needed here.
type AuditStoreForManage interface {
	Save(ctx context.Context, e audit.Event) error
}

// SessionRefresher propagates profile changes into live sessions.
type SessionRefresher interface {
	UpdateForAccount(accountID, displayName, role string)
}

// ManageUserDeps holds dependencies for the user management orchestrators.
type ManageUserDeps struct {
	ProfileStore ProfileStoreForManage
	AuditStore   AuditStoreForManage
	Sessions     SessionRefresher // optional
}

var ErrSelfDemotion = errors.New("admins cannot change their own role or status")

// ExecuteSetUserRole changes a user's role.
// PRE: Actor is an admin and is not the target
// POST: Profile role updated; live sessions refreshed; audit event recorded
func ExecuteSetUserRole(ctx context.Context, actor Actor, targetID, newRole string, deps ManageUserDeps) error {
	if actor.AccountID == targetID {
		return ErrSelfDemotion
	}
	if !profile.IsValidRole(newRole) {
		return profile.ErrInvalidRole
	}

	prof, err := deps.ProfileStore.GetByID(ctx, targetID)
	if err != nil {
		return ErrProfileNotFound
	}
	oldRole := prof.Role
	if oldRole == newRole {
		return nil
	}

	prof.Role = newRole
	prof.UpdatedAt = time.Now()
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return err
	}
	if deps.Sessions != nil {
		deps.Sessions.UpdateForAccount(prof.ID, prof.DisplayName, prof.Role)
	}

	event := audit.NewEvent(actor.AccountID, actor.Email, actor.Role, audit.CategoryProfile, audit.ActionSetRole).
		WithResource("profile", targetID).
		WithDescription(oldRole + " -> " + newRole).
		WithSeverity(audit.SeverityWarning)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("internal_error", "op", "set_user_role", "step", "audit", "error", err)
	}

	slog.Info("admin_event", "event", "role_changed", "target_id", targetID, "from", oldRole, "to", newRole, "by", actor.AccountID)
	return nil
}

// ExecuteSetUserStatus changes a user's status. Setting a profile
// inactive blocks the next login; live sessions run until expiry.
// PRE: Actor is an admin and is not the target
// POST: Profile status updated; audit event recorded
func ExecuteSetUserStatus(ctx context.Context, actor Actor, targetID, newStatus string, deps ManageUserDeps) error {
	if actor.AccountID == targetID {
		return ErrSelfDemotion
	}
	if newStatus != profile.StatusActive && newStatus != profile.StatusInactive && newStatus != profile.StatusPending {
		return profile.ErrInvalidStatus
	}

	prof, err := deps.ProfileStore.GetByID(ctx, targetID)
	if err != nil {
		return ErrProfileNotFound
	}
	oldStatus := prof.Status
	if oldStatus == newStatus {
		return nil
	}

	prof.Status = newStatus
	prof.UpdatedAt = time.Now()
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return err
	}

	severity := audit.SeverityInfo
	if newStatus == profile.StatusInactive {
		severity = audit.SeverityWarning
	}
	event := audit.NewEvent(actor.AccountID, actor.Email, actor.Role, audit.CategoryProfile, audit.ActionSetStatus).
		WithResource("profile", targetID).
		WithDescription(oldStatus + " -> " + newStatus).
		WithSeverity(severity)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("internal_error", "op", "set_user_status", "step", "audit", "error", err)
	}

	slog.Info("admin_event", "event", "status_changed", "target_id", targetID, "from", oldStatus, "to", newStatus, "by", actor.AccountID)
	return nil
}
