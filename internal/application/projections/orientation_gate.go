package projections

import (
	"context"
	"log/slog"

	"resultroad/internal/domain/acknowledgement"
	"resultroad/internal/domain/video"
)

// Gate states. There is no locked-without-video state: a role with no
// configured orientation video passes straight through, and so does a
// user whose acknowledgement or video lookup fails — the gate fails
// open rather than shutting users out of their dashboard.
const (
	GateUnlocked        = "unlocked"
	GateLockedWithVideo = "locked_with_video"
)

// GateAcknowledgementStore defines the acknowledgement store interface needed by the gate.
type GateAcknowledgementStore interface {
	GetByAccountAndRole(ctx context.Context, accountID, role string) (acknowledgement.Acknowledgement, error)
}

// GateVideoStore defines the video store interface needed by the gate.
type GateVideoStore interface {
	GetByRole(ctx context.Context, role string) (video.Video, error)
}

// OrientationGateDeps holds dependencies for the gate projection.
type OrientationGateDeps struct {
	AcknowledgementStore GateAcknowledgementStore
	VideoStore           GateVideoStore
}

// GateResult carries the gate decision for one (account, role) pair.
type GateResult struct {
	State string
	Video video.Video // populated only when State is GateLockedWithVideo
}

// QueryOrientationGate decides whether the dashboard renders or the
// orientation video blocks it.
// PRE: accountID and role belong to an authenticated session
// POST: Returns GateLockedWithVideo only when a video is configured
//
//	for the role and no acknowledgement exists for the account
func QueryOrientationGate(ctx context.Context, accountID, role string, deps OrientationGateDeps) GateResult {
	if _, err := deps.AcknowledgementStore.GetByAccountAndRole(ctx, accountID, role); err == nil {
		return GateResult{State: GateUnlocked}
	}

	vid, err := deps.VideoStore.GetByRole(ctx, role)
	if err != nil {
		// No video configured for the role, or the lookup failed.
		return GateResult{State: GateUnlocked}
	}
	if vid.URL == "" {
		slog.Warn("orientation_event", "event", "video_without_url", "role", role, "video_id", vid.ID)
		return GateResult{State: GateUnlocked}
	}

	return GateResult{State: GateLockedWithVideo, Video: vid}
}
