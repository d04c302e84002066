package audit

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/audit"
)

// Store persists audit events. Events are append-only.
type Store interface {
	Save(ctx context.Context, value domain.Event) error
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Category string
	ActorID  string
	Limit    int
	Offset   int
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
