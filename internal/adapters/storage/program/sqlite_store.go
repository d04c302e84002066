package program

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "resultroad/internal/domain/program"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new ProgramStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const programColumns = "id, name, description, level, duration_weeks, created_by, created_at"

// GetByID retrieves a Program by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Program, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+programColumns+" FROM program WHERE id = ?", id)
	entity, err := scanProgram(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Program{}, fmt.Errorf("program not found: %w", err)
	}
	return entity, err
}

// Save persists a Program to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Program) error {
	query := `INSERT INTO program (id, name, description, level, duration_weeks, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			description=excluded.description,
			level=excluded.level,
			duration_weeks=excluded.duration_weeks`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Description,
		entity.Level,
		entity.DurationWeeks,
		entity.CreatedBy,
		entity.CreatedAt.Format(timeFormat),
	)
	return err
}

// Delete removes a Program from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM program WHERE id = ?", id)
	return err
}

// List retrieves all Programs ordered by name.
// PRE: none
// POST: Returns all programs
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Program, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+programColumns+" FROM program ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Program
	for rows.Next() {
		entity, err := scanProgram(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of programs.
// PRE: none
// POST: Returns total program count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM program").Scan(&count)
	return count, err
}

// scanProgram extracts a Program from a row scanner function.
func scanProgram(scan func(dest ...interface{}) error) (domain.Program, error) {
	var entity domain.Program
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Description,
		&entity.Level,
		&entity.DurationWeeks,
		&entity.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return domain.Program{}, err
	}
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
