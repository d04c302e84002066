package account

import (
	"context"

	"resultroad/internal/adapters/storage"
	domain "resultroad/internal/domain/account"
)

// Store persists Account state. There is deliberately no Delete:
// accounts are never removed by the application, only out of band.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
	SaveResetToken(ctx context.Context, token domain.ResetToken) error
	GetResetTokenByToken(ctx context.Context, token string) (domain.ResetToken, error)
	InvalidateTokensForAccount(ctx context.Context, accountID string) error
}

// SQLDB is the database handle accepted by NewSQLiteStore.
type SQLDB = storage.SQLDB
