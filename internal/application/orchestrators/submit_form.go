package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"resultroad/internal/application/live"
	"resultroad/internal/domain/profile"
	"resultroad/internal/domain/submission"

	"github.com/google/uuid"
)

// SubmissionStoreForSubmit defines the submission store interface needed here.
type SubmissionStoreForSubmit interface {
	Save(ctx context.Context, s submission.Submission) error
	ListByKind(ctx context.Context, kind string, limit int) ([]submission.Submission, error)
}

// SubmitFormInput carries input for the submit-form orchestrator.
type SubmitFormInput struct {
	Kind        string
	SubmitterID string
	Role        string
	ProgramID   string
	Rating      int
	Notes       string
}

// SubmitFormDeps holds dependencies for SubmitForm.
type SubmitFormDeps struct {
	SubmissionStore SubmissionStoreForSubmit
	Feed            *live.Feed // optional; nil skips the live refresh
}

// kindsByRole maps each role to the form kinds it may submit.
var kindsByRole = map[string][]string{
	profile.RoleParticipant:     {submission.KindFeedback},
	profile.RoleInstructor:      {submission.KindFeedback},
	profile.RoleFitnessPartner:  {submission.KindMonitoring},
	profile.RoleServiceProvider: {submission.KindMonitoring},
	profile.RoleSupportWorker:   {submission.KindProgressOverview},
}

var ErrFormNotAllowed = errors.New("your role cannot submit this form")

// feedSnapshotSize is how many recent submissions per kind the live
// feed carries.
const feedSnapshotSize = 20

// CanSubmitKind reports whether a role may submit a given form kind.
func CanSubmitKind(role, kind string) bool {
	for _, k := range kindsByRole[role] {
		if k == kind {
			return true
		}
	}
	return false
}

// ExecuteSubmitForm validates and stores a form submission, then
// refreshes that kind's snapshot in the live feed so open admin review
// pages update.
// PRE: SubmitterID belongs to an authenticated session with Role
// POST: Submission persisted; feed snapshot for the kind replaced
// INVARIANT: A role only ever writes the kinds mapped to it
func ExecuteSubmitForm(ctx context.Context, input SubmitFormInput, deps SubmitFormDeps) (string, error) {
	if input.SubmitterID == "" {
		return "", ErrNotAuthenticated
	}
	if !CanSubmitKind(input.Role, input.Kind) {
		slog.Info("form_event", "event", "submit_rejected", "kind", input.Kind, "role", input.Role)
		return "", ErrFormNotAllowed
	}

	sub := submission.Submission{
		ID:            uuid.New().String(),
		Kind:          input.Kind,
		SubmitterID:   input.SubmitterID,
		SubmitterRole: input.Role,
		ProgramID:     input.ProgramID,
		Rating:        input.Rating,
		Notes:         strings.TrimSpace(input.Notes),
		CreatedAt:     time.Now(),
	}
	if err := sub.Validate(); err != nil {
		return "", err
	}
	if err := deps.SubmissionStore.Save(ctx, sub); err != nil {
		return "", err
	}

	slog.Info("form_event", "event", "form_submitted", "kind", sub.Kind, "submitter_id", sub.SubmitterID)

	if deps.Feed != nil {
		if err := RefreshFeedKind(ctx, sub.Kind, deps); err != nil {
			// The submission is saved; the feed catches up on the next
			// publish for this kind.
			slog.Error("internal_error", "op", "submit_form", "step", "feed_refresh", "kind", sub.Kind, "error", err)
		}
	}

	return sub.ID, nil
}

// RefreshFeedKind reloads the recent submissions of one kind and
// publishes them as that source's snapshot.
func RefreshFeedKind(ctx context.Context, kind string, deps SubmitFormDeps) error {
	recent, err := deps.SubmissionStore.ListByKind(ctx, kind, feedSnapshotSize)
	if err != nil {
		return err
	}
	rows := make([]live.Row, 0, len(recent))
	for _, s := range recent {
		rows = append(rows, live.Row{
			Source:    s.Kind,
			ID:        s.ID,
			Title:     feedTitle(s),
			Detail:    truncateNotes(s.Notes, 120),
			CreatedAt: s.CreatedAt,
		})
	}
	deps.Feed.Publish(kind, rows)
	return nil
}

func feedTitle(s submission.Submission) string {
	switch s.Kind {
	case submission.KindFeedback:
		return "Feedback from " + s.SubmitterRole
	case submission.KindMonitoring:
		return "Monitoring form from " + s.SubmitterRole
	default:
		return "Progress overview from " + s.SubmitterRole
	}
}

// truncateNotes cuts notes to at most max bytes on a rune boundary.
func truncateNotes(notes string, max int) string {
	if len(notes) <= max {
		return notes
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(notes[cut]) {
		cut--
	}
	return notes[:cut] + "…"
}
