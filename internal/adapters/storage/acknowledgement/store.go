package acknowledgement

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/acknowledgement"
)

// Store persists Acknowledgement state. Records are write-once: Save
// never updates an existing (account, role) pair and there is no
// delete through the application.
type Store interface {
	GetByAccountAndRole(ctx context.Context, accountID, role string) (domain.Acknowledgement, error)
	Save(ctx context.Context, value domain.Acknowledgement) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Acknowledgement, error)
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
