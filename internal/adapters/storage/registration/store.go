package registration

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/registration"
)

// Store persists Registration state.
type Store interface {
	GetBySessionAndParticipant(ctx context.Context, sessionID, participantID string) (domain.Registration, error)
	Save(ctx context.Context, value domain.Registration) error
	Delete(ctx context.Context, id string) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Registration, error)
	ListByParticipant(ctx context.Context, participantID string) ([]domain.Registration, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
