package groupsession

import (
	"context"
	"time"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/groupsession"
)

// Store persists Session state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Session, error)
	ListByProgram(ctx context.Context, programID string) ([]domain.Session, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]domain.Session, error)
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
