package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"resultroad/internal/domain/acknowledgement"

	"github.com/google/uuid"
)

// AcknowledgementStoreForAck defines the store interface needed here.
type AcknowledgementStoreForAck interface {
	Save(ctx context.Context, a acknowledgement.Acknowledgement) error
}

// AcknowledgeOrientationInput carries input for the orchestrator.
type AcknowledgeOrientationInput struct {
	AccountID string
	Role      string
}

// AcknowledgeOrientationDeps holds dependencies for AcknowledgeOrientation.
type AcknowledgeOrientationDeps struct {
	AcknowledgementStore AcknowledgementStoreForAck
}

// ExecuteAcknowledgeOrientation records that the orientation video was
// watched. The store upserts with DO NOTHING on the (account, role)
// key, so repeated calls keep the original WatchedAt.
// PRE: AccountID belongs to an authenticated session with Role
// POST: An acknowledgement row exists for (AccountID, Role)
// INVARIANT: An acknowledgement, once written, is never updated
func ExecuteAcknowledgeOrientation(ctx context.Context, input AcknowledgeOrientationInput, deps AcknowledgeOrientationDeps) error {
	if input.AccountID == "" {
		return ErrNotAuthenticated
	}

	ack := acknowledgement.Acknowledgement{
		ID:        uuid.New().String(),
		AccountID: input.AccountID,
		Role:      input.Role,
		WatchedAt: time.Now(),
	}
	if err := ack.Validate(); err != nil {
		return err
	}
	if err := deps.AcknowledgementStore.Save(ctx, ack); err != nil {
		return err
	}

	slog.Info("orientation_event", "event", "video_acknowledged", "account_id", input.AccountID, "role", input.Role)
	return nil
}
