package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"resultroad/internal/domain/groupsession"
	"resultroad/internal/domain/program"
	"resultroad/internal/domain/video"

	"github.com/google/uuid"
)

// ProgramStoreForManage defines the program store interface needed here.
type ProgramStoreForManage interface {
	GetByID(ctx context.Context, id string) (program.Program, error)
	Save(ctx context.Context, p program.Program) error
}

// SessionStoreForManage defines the session store interface needed here.
type SessionStoreForManage interface {
	Save(ctx context.Context, s groupsession.Session) error
}

// VideoStoreForManage defines the video store interface needed here.
type VideoStoreForManage interface {
	Save(ctx context.Context, v video.Video) error
}

// SaveProgramInput carries input for creating or updating a program.
type SaveProgramInput struct {
	ID            string // empty creates a new program
	Name          string
	Description   string
	Level         string
	DurationWeeks int
	Actor         Actor
}

// ManageProgramDeps holds dependencies for the program management orchestrators.
type ManageProgramDeps struct {
	ProgramStore ProgramStoreForManage
	SessionStore SessionStoreForManage
	VideoStore   VideoStoreForManage
}

// ExecuteSaveProgram creates or updates a program.
// PRE: Actor is an admin
// POST: Program persisted; ID returned
func ExecuteSaveProgram(ctx context.Context, input SaveProgramInput, deps ManageProgramDeps) (string, error) {
	prog := program.Program{
		ID:            input.ID,
		Name:          input.Name,
		Description:   input.Description,
		Level:         input.Level,
		DurationWeeks: input.DurationWeeks,
		CreatedBy:     input.Actor.AccountID,
		CreatedAt:     time.Now(),
	}
	if input.ID != "" {
		existing, err := deps.ProgramStore.GetByID(ctx, input.ID)
		if err != nil {
			return "", ErrProgramNotFound
		}
		prog.CreatedBy = existing.CreatedBy
		prog.CreatedAt = existing.CreatedAt
	} else {
		prog.ID = uuid.New().String()
	}

	if err := prog.Validate(); err != nil {
		return "", err
	}
	if err := deps.ProgramStore.Save(ctx, prog); err != nil {
		return "", err
	}

	slog.Info("program_event", "event", "program_saved", "program_id", prog.ID, "by", input.Actor.AccountID)
	return prog.ID, nil
}

// CreateSessionInput carries input for scheduling a group session.
type CreateSessionInput struct {
	ProgramID    string
	InstructorID string
	Name         string
	Location     string
	StartsAt     time.Time
	EndsAt       time.Time
	Capacity     int
	Actor        Actor
}

// ExecuteCreateSession schedules a group session within a program.
// PRE: Actor is an admin; program exists
// POST: Session persisted; ID returned
func ExecuteCreateSession(ctx context.Context, input CreateSessionInput, deps ManageProgramDeps) (string, error) {
	if _, err := deps.ProgramStore.GetByID(ctx, input.ProgramID); err != nil {
		return "", ErrProgramNotFound
	}

	sess := groupsession.Session{
		ID:           uuid.New().String(),
		ProgramID:    input.ProgramID,
		InstructorID: input.InstructorID,
		Name:         input.Name,
		Location:     input.Location,
		StartsAt:     input.StartsAt,
		EndsAt:       input.EndsAt,
		Capacity:     input.Capacity,
		CreatedAt:    time.Now(),
	}
	if err := sess.Validate(); err != nil {
		return "", err
	}
	if err := deps.SessionStore.Save(ctx, sess); err != nil {
		return "", err
	}

	slog.Info("session_event", "event", "session_created", "session_id", sess.ID, "program_id", input.ProgramID)
	return sess.ID, nil
}

// SaveVideoInput carries input for configuring a role's orientation video.
type SaveVideoInput struct {
	Role  string
	Title string
	URL   string
	Actor Actor
}

// ExecuteSaveVideo sets or replaces the orientation video for a role.
// The store upserts on role, so each role has at most one video.
// PRE: Actor is an admin
// POST: Video persisted for the role
func ExecuteSaveVideo(ctx context.Context, input SaveVideoInput, deps ManageProgramDeps) error {
	vid := video.Video{
		ID:        uuid.New().String(),
		Role:      input.Role,
		Title:     input.Title,
		URL:       input.URL,
		CreatedBy: input.Actor.AccountID,
		CreatedAt: time.Now(),
	}
	if err := vid.Validate(); err != nil {
		return err
	}
	if err := deps.VideoStore.Save(ctx, vid); err != nil {
		return err
	}

	slog.Info("admin_event", "event", "video_saved", "role", input.Role, "by", input.Actor.AccountID)
	return nil
}
