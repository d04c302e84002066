package groupsession

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "resultroad/internal/domain/groupsession"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new SessionStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const sessionColumns = "id, program_id, instructor_id, name, location, starts_at, ends_at, capacity, created_at"

// GetByID retrieves a Session by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM group_session WHERE id = ?", id)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("session not found: %w", err)
	}
	return entity, err
}

// Save persists a Session to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	query := `INSERT INTO group_session (id, program_id, instructor_id, name, location, starts_at, ends_at, capacity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			instructor_id=excluded.instructor_id,
			name=excluded.name,
			location=excluded.location,
			starts_at=excluded.starts_at,
			ends_at=excluded.ends_at,
			capacity=excluded.capacity`

	var instructorID interface{}
	if entity.InstructorID != "" {
		instructorID = entity.InstructorID
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.ProgramID,
		instructorID,
		entity.Name,
		entity.Location,
		entity.StartsAt.Format(timeFormat),
		entity.EndsAt.Format(timeFormat),
		entity.Capacity,
		entity.CreatedAt.Format(timeFormat),
	)
	return err
}

// Delete removes a Session from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM group_session WHERE id = ?", id)
	return err
}

// ListUpcoming retrieves sessions starting after now, soonest first.
// PRE: limit > 0
// POST: Returns up to limit upcoming sessions
func (s *SQLiteStore) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Session, error) {
	query := "SELECT " + sessionColumns + " FROM group_session WHERE starts_at > ? ORDER BY starts_at LIMIT ?"
	return s.queryList(ctx, query, now.Format(timeFormat), limit)
}

// ListByProgram retrieves sessions for a program ordered by start time.
// PRE: programID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByProgram(ctx context.Context, programID string) ([]domain.Session, error) {
	query := "SELECT " + sessionColumns + " FROM group_session WHERE program_id = ? ORDER BY starts_at"
	return s.queryList(ctx, query, programID)
}

// ListByInstructor retrieves sessions run by an instructor ordered by start time.
// PRE: instructorID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByInstructor(ctx context.Context, instructorID string) ([]domain.Session, error) {
	query := "SELECT " + sessionColumns + " FROM group_session WHERE instructor_id = ? ORDER BY starts_at"
	return s.queryList(ctx, query, instructorID)
}

func (s *SQLiteStore) queryList(ctx context.Context, query string, args ...interface{}) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Session
	for rows.Next() {
		entity, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanSession extracts a Session from a row scanner function.
func scanSession(scan func(dest ...interface{}) error) (domain.Session, error) {
	var entity domain.Session
	var startsAt, endsAt, createdAt string
	var instructorID sql.NullString
	err := scan(
		&entity.ID,
		&entity.ProgramID,
		&instructorID,
		&entity.Name,
		&entity.Location,
		&startsAt,
		&endsAt,
		&entity.Capacity,
		&createdAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	if instructorID.Valid {
		entity.InstructorID = instructorID.String
	}
	entity.StartsAt, _ = parseTime(startsAt)
	entity.EndsAt, _ = parseTime(endsAt)
	entity.CreatedAt, _ = parseTime(createdAt)
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
