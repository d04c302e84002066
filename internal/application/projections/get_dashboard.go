package projections

import (
	"context"
	"time"

	auditstore "resultroad/internal/adapters/storage/audit"
	profilestore "resultroad/internal/adapters/storage/profile"
	submissionstore "resultroad/internal/adapters/storage/submission"
	"resultroad/internal/domain/assignment"
	"resultroad/internal/domain/audit"
	"resultroad/internal/domain/groupsession"
	"resultroad/internal/domain/profile"
	"resultroad/internal/domain/program"
	"resultroad/internal/domain/registration"
	"resultroad/internal/domain/submission"
)

// DashboardAssignmentStore defines the assignment store interface needed by the dashboard.
type DashboardAssignmentStore interface {
	ListByParticipant(ctx context.Context, participantID string) ([]assignment.Assignment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]assignment.Assignment, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// DashboardProgramStore defines the program store interface needed by the dashboard.
type DashboardProgramStore interface {
	GetByID(ctx context.Context, id string) (program.Program, error)
	Count(ctx context.Context) (int, error)
}

// DashboardSessionStore defines the session store interface needed by the dashboard.
type DashboardSessionStore interface {
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]groupsession.Session, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]groupsession.Session, error)
}

// DashboardRegistrationStore defines the registration store interface needed by the dashboard.
type DashboardRegistrationStore interface {
	ListByParticipant(ctx context.Context, participantID string) ([]registration.Registration, error)
}

// DashboardProfileStore defines the profile store interface needed by the dashboard.
type DashboardProfileStore interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Count(ctx context.Context, filter profilestore.ListFilter) (int, error)
}

// DashboardSubmissionStore defines the submission store interface needed by the dashboard.
type DashboardSubmissionStore interface {
	Count(ctx context.Context, filter submissionstore.ListFilter) (int, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]submission.Submission, error)
}

// DashboardAuditStore defines the audit store interface needed by the dashboard.
type DashboardAuditStore interface {
	List(ctx context.Context, filter auditstore.ListFilter) ([]audit.Event, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	AccountID string
	Role      string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	AssignmentStore   DashboardAssignmentStore
	ProgramStore      DashboardProgramStore
	SessionStore      DashboardSessionStore
	RegistrationStore DashboardRegistrationStore
	ProfileStore      DashboardProfileStore
	SubmissionStore   DashboardSubmissionStore
	AuditStore        DashboardAuditStore // optional: nil skips recent activity
}

// AssignmentWithProgram pairs an assignment with its program for display.
type AssignmentWithProgram struct {
	Assignment assignment.Assignment
	Program    program.Program
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Role string

	// Shared
	UpcomingSessions []groupsession.Session

	// Participant
	Assignments   []AssignmentWithProgram
	RegisteredIDs map[string]bool // session IDs the participant holds a spot in

	// Instructor
	MySessions     []groupsession.Session
	MyParticipants []profile.Profile

	// Partner / provider / support worker
	MySubmissions []submission.Submission

	// Admin
	UserCount       int
	ProgramCount    int
	SubmissionCount int
	ActiveCount     int
	PendingCount    int
	InProgressCount int
	RecentActivity  []audit.Event
}

// QueryGetDashboard aggregates dashboard data based on the user's role.
// Individual lookups fail soft: a broken section renders empty rather
// than taking the whole page down.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps, now time.Time) (DashboardResult, error) {
	result := DashboardResult{Role: query.Role}

	// All roles: next upcoming sessions
	if sessions, err := deps.SessionStore.ListUpcoming(ctx, now, 5); err == nil {
		result.UpcomingSessions = sessions
	}

	switch query.Role {
	case profile.RoleAdmin:
		if n, err := deps.ProfileStore.Count(ctx, profilestore.ListFilter{}); err == nil {
			result.UserCount = n
		}
		if n, err := deps.ProfileStore.Count(ctx, profilestore.ListFilter{Status: profile.StatusActive}); err == nil {
			result.ActiveCount = n
		}
		if n, err := deps.ProfileStore.Count(ctx, profilestore.ListFilter{Status: profile.StatusPending}); err == nil {
			result.PendingCount = n
		}
		if n, err := deps.ProgramStore.Count(ctx); err == nil {
			result.ProgramCount = n
		}
		if n, err := deps.SubmissionStore.Count(ctx, submissionstore.ListFilter{}); err == nil {
			result.SubmissionCount = n
		}
		if n, err := deps.AssignmentStore.CountByStatus(ctx, assignment.StatusInProgress); err == nil {
			result.InProgressCount = n
		}
		if deps.AuditStore != nil {
			if events, err := deps.AuditStore.List(ctx, auditstore.ListFilter{Limit: 10}); err == nil {
				result.RecentActivity = events
			}
		}

	case profile.RoleParticipant:
		if assignments, err := deps.AssignmentStore.ListByParticipant(ctx, query.AccountID); err == nil {
			for _, a := range assignments {
				awp := AssignmentWithProgram{Assignment: a}
				if prog, err := deps.ProgramStore.GetByID(ctx, a.ProgramID); err == nil {
					awp.Program = prog
				}
				result.Assignments = append(result.Assignments, awp)
			}
		}
		result.RegisteredIDs = make(map[string]bool)
		if regs, err := deps.RegistrationStore.ListByParticipant(ctx, query.AccountID); err == nil {
			for _, r := range regs {
				result.RegisteredIDs[r.SessionID] = true
			}
		}

	case profile.RoleInstructor:
		if sessions, err := deps.SessionStore.ListByInstructor(ctx, query.AccountID); err == nil {
			result.MySessions = sessions
		}
		if assignments, err := deps.AssignmentStore.ListByInstructor(ctx, query.AccountID); err == nil {
			seen := make(map[string]bool)
			for _, a := range assignments {
				if seen[a.ParticipantID] {
					continue
				}
				seen[a.ParticipantID] = true
				if prof, err := deps.ProfileStore.GetByID(ctx, a.ParticipantID); err == nil {
					result.MyParticipants = append(result.MyParticipants, prof)
				}
			}
		}

	default:
		// Fitness partners, service providers and support workers see
		// their own recent submissions.
		if subs, err := deps.SubmissionStore.ListBySubmitter(ctx, query.AccountID); err == nil {
			if len(subs) > 5 {
				subs = subs[:5]
			}
			result.MySubmissions = subs
		}
	}

	return result, nil
}
