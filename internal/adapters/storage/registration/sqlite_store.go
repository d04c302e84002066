package registration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "resultroad/internal/domain/registration"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new RegistrationStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const registrationColumns = "id, session_id, participant_id, registered_at"

// GetBySessionAndParticipant retrieves a Registration by its composite key.
// PRE: sessionID and participantID are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetBySessionAndParticipant(ctx context.Context, sessionID, participantID string) (domain.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registration WHERE session_id = ? AND participant_id = ?",
		sessionID, participantID)
	entity, err := scanRegistration(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Registration{}, fmt.Errorf("registration not found: %w", err)
	}
	return entity, err
}

// Save persists a Registration. The (session, participant) pair is
// unique; re-registering is a no-op.
// PRE: entity has been validated
// POST: Entity is persisted; duplicate pairs are ignored
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Registration) error {
	query := `INSERT INTO registration (id, session_id, participant_id, registered_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, participant_id) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.SessionID,
		entity.ParticipantID,
		entity.RegisteredAt.Format(timeFormat),
	)
	return err
}

// Delete removes a Registration from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM registration WHERE id = ?", id)
	return err
}

// ListBySession retrieves registrations for a session.
// PRE: sessionID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Registration, error) {
	query := "SELECT " + registrationColumns + " FROM registration WHERE session_id = ? ORDER BY registered_at"
	return s.queryList(ctx, query, sessionID)
}

// ListByParticipant retrieves registrations made by a participant.
// PRE: participantID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByParticipant(ctx context.Context, participantID string) ([]domain.Registration, error) {
	query := "SELECT " + registrationColumns + " FROM registration WHERE participant_id = ? ORDER BY registered_at DESC"
	return s.queryList(ctx, query, participantID)
}

// CountBySession returns the number of registrations for a session.
// PRE: sessionID is non-empty
// POST: Returns count of matching entities
func (s *SQLiteStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registration WHERE session_id = ?", sessionID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) queryList(ctx context.Context, query string, args ...interface{}) ([]domain.Registration, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Registration
	for rows.Next() {
		entity, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanRegistration extracts a Registration from a row scanner function.
func scanRegistration(scan func(dest ...interface{}) error) (domain.Registration, error) {
	var entity domain.Registration
	var registeredAt string
	err := scan(&entity.ID, &entity.SessionID, &entity.ParticipantID, &registeredAt)
	if err != nil {
		return domain.Registration{}, err
	}
	entity.RegisteredAt, _ = parseTime(registeredAt)
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
