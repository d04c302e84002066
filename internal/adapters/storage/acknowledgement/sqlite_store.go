package acknowledgement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "resultroad/internal/domain/acknowledgement"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new AcknowledgementStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const ackColumns = "id, account_id, role, watched_at"

// GetByAccountAndRole retrieves an Acknowledgement by its composite key.
// PRE: accountID and role are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountAndRole(ctx context.Context, accountID, role string) (domain.Acknowledgement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+ackColumns+" FROM acknowledgement WHERE account_id = ? AND role = ?",
		accountID, role)
	entity, err := scanAcknowledgement(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Acknowledgement{}, fmt.Errorf("acknowledgement not found: %w", err)
	}
	return entity, err
}

// Save persists an Acknowledgement. Write-once: an existing
// (account, role) record is left untouched.
// PRE: entity has been validated
// POST: Record exists for the (account, role) pair
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Acknowledgement) error {
	query := `INSERT INTO acknowledgement (id, account_id, role, watched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id, role) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.AccountID,
		entity.Role,
		entity.WatchedAt.Format(timeFormat),
	)
	return err
}

// ListByAccount retrieves all acknowledgements for an account.
// PRE: accountID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Acknowledgement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+ackColumns+" FROM acknowledgement WHERE account_id = ? ORDER BY watched_at", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Acknowledgement
	for rows.Next() {
		entity, err := scanAcknowledgement(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAcknowledgement extracts an Acknowledgement from a row scanner function.
func scanAcknowledgement(scan func(dest ...interface{}) error) (domain.Acknowledgement, error) {
	var entity domain.Acknowledgement
	var watchedAt string
	err := scan(&entity.ID, &entity.AccountID, &entity.Role, &watchedAt)
	if err != nil {
		return domain.Acknowledgement{}, err
	}
	entity.WatchedAt, _ = parseTime(watchedAt)
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
