package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"resultroad/internal/domain/account"
	"resultroad/internal/domain/profile"
	"resultroad/internal/domain/program"
	"resultroad/internal/domain/video"

	"github.com/google/uuid"
)

// AccountStoreForSeed defines the account store interface needed by seeding.
type AccountStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, a account.Account) error
}

// ProgramStoreForSeed defines the program store interface needed by seeding.
type ProgramStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, p program.Program) error
}

// SeedDeps holds dependencies for the seed orchestrators.
type SeedDeps struct {
	AccountStore AccountStoreForSeed
	ProfileStore ProfileStoreForSignUp
	ProgramStore ProgramStoreForSeed
	VideoStore   VideoStoreForManage
}

// ExecuteSeedAdmin creates the initial admin when no accounts exist.
// This is the only way an admin comes into existence on a fresh
// install; the sign-up form never grants the admin role.
// PRE: Database is migrated
// POST: Admin account and profile exist if the store was empty
func ExecuteSeedAdmin(ctx context.Context, deps SeedDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	acct := account.Account{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: "Administrator",
		CreatedAt:   now,
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	prof := profile.Profile{
		ID:          acct.ID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		Role:        profile.RoleAdmin,
		Status:      profile.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		Preferences: profile.Preferences{EmailNotifications: true, Theme: "light"},
	}
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}

// ExecuteSeedDemoData loads starter programs and orientation videos on
// an empty install so the first admin has something to assign.
// PRE: Database is migrated
// POST: Starter programs and videos exist if none did
func ExecuteSeedDemoData(ctx context.Context, deps SeedDeps, adminID string) error {
	count, err := deps.ProgramStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	starters := []program.Program{
		{Name: "Foundations of Movement", Description: "An introductory program covering balance, coordination and confidence building.", Level: program.LevelFoundation, DurationWeeks: 8},
		{Name: "Strength and Stamina", Description: "Builds on the foundations with structured strength work and endurance sessions.", Level: program.LevelIntermediate, DurationWeeks: 12},
		{Name: "Community Challenge", Description: "Advanced group training working towards a community event.", Level: program.LevelAdvanced, DurationWeeks: 16},
	}
	for _, p := range starters {
		p.ID = uuid.New().String()
		p.CreatedBy = adminID
		p.CreatedAt = now
		if err := deps.ProgramStore.Save(ctx, p); err != nil {
			return err
		}
	}

	orientations := []video.Video{
		{Role: profile.RoleParticipant, Title: "Welcome to Result Road", URL: "https://media.resultroad.org.nz/orientation/participant-intro.mp4"},
		{Role: profile.RoleInstructor, Title: "Instructing at Result Road", URL: "https://media.resultroad.org.nz/orientation/instructor-intro.mp4"},
		{Role: profile.RoleSupportWorker, Title: "Supporting participants", URL: "https://media.resultroad.org.nz/orientation/support-intro.mp4"},
	}
	for _, v := range orientations {
		v.ID = uuid.New().String()
		v.CreatedBy = adminID
		v.CreatedAt = now
		if err := deps.VideoStore.Save(ctx, v); err != nil {
			return err
		}
	}

	slog.Info("system_event", "event", "demo_data_seeded", "programs", len(starters), "videos", len(orientations))
	return nil
}
