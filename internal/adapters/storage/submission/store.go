package submission

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/submission"
)

// Store persists Submission state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Submission, error)
	Save(ctx context.Context, value domain.Submission) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Submission, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	ListByKind(ctx context.Context, kind string, limit int) ([]domain.Submission, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Submission, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Kind      string
	Role      string
	ProgramID string
	Search    string // matches notes
	Sort      string // "created", "kind", "rating"
	Dir       string // "asc" or "desc"
	Limit     int
	Offset    int
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
