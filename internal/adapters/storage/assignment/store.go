package assignment

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/assignment"
)

// Store persists Assignment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Assignment, error)
	Save(ctx context.Context, value domain.Assignment) error
	Delete(ctx context.Context, id string) error
	ListByParticipant(ctx context.Context, participantID string) ([]domain.Assignment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]domain.Assignment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Assignment, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	ProgramID string
	Status    string
	Limit     int
	Offset    int
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
