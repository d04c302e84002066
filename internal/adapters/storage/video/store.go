package video

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/video"
)

// Store persists orientation Video configuration.
type Store interface {
	GetByRole(ctx context.Context, role string) (domain.Video, error)
	Save(ctx context.Context, value domain.Video) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Video, error)
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
