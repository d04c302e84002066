package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resultroad/internal/domain/assignment"
	"resultroad/internal/domain/audit"
	"resultroad/internal/domain/profile"
	"resultroad/internal/domain/program"

	"github.com/google/uuid"
)

// AssignmentStoreForAssign defines the assignment store interface needed here.
type AssignmentStoreForAssign interface {
	GetByID(ctx context.Context, id string) (assignment.Assignment, error)
	Save(ctx context.Context, a assignment.Assignment) error
	ListByParticipant(ctx context.Context, participantID string) ([]assignment.Assignment, error)
}

// ProgramStoreForAssign defines the program store interface needed here.
type ProgramStoreForAssign interface {
	GetByID(ctx context.Context, id string) (program.Program, error)
}

// ProfileStoreForAssign defines the profile store interface needed here.
type ProfileStoreForAssign interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// AuditStoreForAssign defines the audit store interface needed here.
type AuditStoreForAssign interface {
	Save(ctx context.Context, e audit.Event) error
}

// AssignProgramInput carries input for the assign-program orchestrator.
type AssignProgramInput struct {
	ProgramID     string
	ParticipantID string
	InstructorID  string // optional
	Actor         Actor
}

// Actor identifies the signed-in user performing an admin operation,
// for the audit trail.
type Actor struct {
	AccountID string
	Email     string
	Role      string
}

// AssignProgramDeps holds dependencies for AssignProgram.
type AssignProgramDeps struct {
	AssignmentStore AssignmentStoreForAssign
	ProgramStore    ProgramStoreForAssign
	ProfileStore    ProfileStoreForAssign
	AuditStore      AuditStoreForAssign
}

var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrNotAParticipant    = errors.New("programs can only be assigned to participants")
	ErrNotAnInstructor    = errors.New("the supervising user must have the instructor role")
	ErrAlreadyAssigned    = errors.New("participant is already assigned to this program")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// ExecuteAssignProgram assigns a program to a participant, optionally
// under a supervising instructor.
// PRE: Actor is an admin; participant and program exist
// POST: Assignment created with status assigned; audit event recorded
// INVARIANT: At most one assignment per (program, participant)
func ExecuteAssignProgram(ctx context.Context, input AssignProgramInput, deps AssignProgramDeps) (string, error) {
	prog, err := deps.ProgramStore.GetByID(ctx, input.ProgramID)
	if err != nil {
		return "", ErrProgramNotFound
	}

	participant, err := deps.ProfileStore.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return "", ErrProfileNotFound
	}
	if participant.Role != profile.RoleParticipant {
		return "", ErrNotAParticipant
	}

	if input.InstructorID != "" {
		instructor, err := deps.ProfileStore.GetByID(ctx, input.InstructorID)
		if err != nil {
			return "", ErrProfileNotFound
		}
		if instructor.Role != profile.RoleInstructor {
			return "", ErrNotAnInstructor
		}
	}

	existing, err := deps.AssignmentStore.ListByParticipant(ctx, input.ParticipantID)
	if err != nil {
		return "", err
	}
	for _, a := range existing {
		if a.ProgramID == input.ProgramID && a.Status != assignment.StatusCompleted {
			return "", ErrAlreadyAssigned
		}
	}

	now := time.Now()
	asg := assignment.Assignment{
		ID:            uuid.New().String(),
		ProgramID:     input.ProgramID,
		ParticipantID: input.ParticipantID,
		InstructorID:  input.InstructorID,
		Status:        assignment.StatusAssigned,
		AssignedBy:    input.Actor.AccountID,
		AssignedAt:    now,
		UpdatedAt:     now,
	}
	if err := asg.Validate(); err != nil {
		return "", err
	}
	if err := deps.AssignmentStore.Save(ctx, asg); err != nil {
		return "", err
	}

	event := audit.NewEvent(input.Actor.AccountID, input.Actor.Email, input.Actor.Role, audit.CategoryProgram, audit.ActionCreate).
		WithResource("assignment", asg.ID).
		WithDescription("assigned " + prog.Name + " to " + participant.Email)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("internal_error", "op", "assign_program", "step", "audit", "error", err)
	}

	slog.Info("program_event", "event", "program_assigned", "program_id", input.ProgramID, "participant_id", input.ParticipantID, "by", input.Actor.AccountID)
	return asg.ID, nil
}

// UpdateAssignmentStatusInput carries input for a status transition.
type UpdateAssignmentStatusInput struct {
	AssignmentID string
	Target       string // in_progress or completed
	Actor        Actor
}

// ExecuteUpdateAssignmentStatus moves an assignment through its
// lifecycle: assigned -> in_progress -> completed.
// PRE: Assignment exists and the transition is legal
// POST: Status updated; audit event recorded
func ExecuteUpdateAssignmentStatus(ctx context.Context, input UpdateAssignmentStatusInput, deps AssignProgramDeps) error {
	asg, err := deps.AssignmentStore.GetByID(ctx, input.AssignmentID)
	if err != nil {
		return ErrAssignmentNotFound
	}

	now := time.Now()
	switch input.Target {
	case assignment.StatusInProgress:
		err = asg.Start(now)
	case assignment.StatusCompleted:
		err = asg.Complete(now)
	default:
		err = assignment.ErrInvalidStatus
	}
	if err != nil {
		return err
	}

	if err := deps.AssignmentStore.Save(ctx, asg); err != nil {
		return err
	}

	event := audit.NewEvent(input.Actor.AccountID, input.Actor.Email, input.Actor.Role, audit.CategoryProgram, audit.ActionUpdate).
		WithResource("assignment", asg.ID).
		WithDescription("status -> " + asg.Status)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("internal_error", "op", "update_assignment_status", "step", "audit", "error", err)
	}

	slog.Info("program_event", "event", "assignment_status", "assignment_id", asg.ID, "status", asg.Status)
	return nil
}
