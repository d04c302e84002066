package profile

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/profile"
)

// Store persists Profile state. There is no Delete: the application
// never removes a profile once created.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
	List(ctx context.Context, filter ListFilter) ([]domain.Profile, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Role   string
	Status string
	Search string // matches email or display name
	Sort   string // "email", "name", "role", "created"
	Dir    string // "asc" or "desc"
	Limit  int
	Offset int
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
