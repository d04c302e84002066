package assignment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "resultroad/internal/domain/assignment"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new AssignmentStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const assignmentColumns = "id, program_id, participant_id, instructor_id, status, assigned_by, assigned_at, updated_at"

// GetByID retrieves an Assignment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+assignmentColumns+" FROM assignment WHERE id = ?", id)
	entity, err := scanAssignment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Assignment{}, fmt.Errorf("assignment not found: %w", err)
	}
	return entity, err
}

// Save persists an Assignment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Assignment) error {
	query := `INSERT INTO assignment (id, program_id, participant_id, instructor_id, status, assigned_by, assigned_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			instructor_id=excluded.instructor_id,
			status=excluded.status,
			updated_at=excluded.updated_at`

	var instructorID interface{}
	if entity.InstructorID != "" {
		instructorID = entity.InstructorID
	}
	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(timeFormat)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.ProgramID,
		entity.ParticipantID,
		instructorID,
		entity.Status,
		entity.AssignedBy,
		entity.AssignedAt.Format(timeFormat),
		updatedAt,
	)
	return err
}

// Delete removes an Assignment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM assignment WHERE id = ?", id)
	return err
}

// ListByParticipant retrieves assignments for a participant, newest first.
// PRE: participantID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByParticipant(ctx context.Context, participantID string) ([]domain.Assignment, error) {
	return s.listWhere(ctx, "participant_id = ?", participantID)
}

// ListByInstructor retrieves assignments supervised by an instructor, newest first.
// PRE: instructorID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByInstructor(ctx context.Context, instructorID string) ([]domain.Assignment, error) {
	return s.listWhere(ctx, "instructor_id = ?", instructorID)
}

// List retrieves Assignments based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Assignment, error) {
	var b strings.Builder
	var args []interface{}
	b.WriteString("SELECT " + assignmentColumns + " FROM assignment")

	var conds []string
	if filter.ProgramID != "" {
		conds = append(conds, "program_id = ?")
		args = append(args, filter.ProgramID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY assigned_at DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	return s.queryList(ctx, b.String(), args...)
}

// CountByStatus returns the number of assignments with the given status.
// PRE: status is non-empty
// POST: Returns count of matching entities
func (s *SQLiteStore) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assignment WHERE status = ?", status).Scan(&count)
	return count, err
}

func (s *SQLiteStore) listWhere(ctx context.Context, cond string, args ...interface{}) ([]domain.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignment WHERE " + cond + " ORDER BY assigned_at DESC"
	return s.queryList(ctx, query, args...)
}

func (s *SQLiteStore) queryList(ctx context.Context, query string, args ...interface{}) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Assignment
	for rows.Next() {
		entity, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAssignment extracts an Assignment from a row scanner function.
func scanAssignment(scan func(dest ...interface{}) error) (domain.Assignment, error) {
	var entity domain.Assignment
	var assignedAt string
	var instructorID, updatedAt sql.NullString
	err := scan(
		&entity.ID,
		&entity.ProgramID,
		&entity.ParticipantID,
		&instructorID,
		&entity.Status,
		&entity.AssignedBy,
		&assignedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Assignment{}, err
	}
	if instructorID.Valid {
		entity.InstructorID = instructorID.String
	}
	entity.AssignedAt, _ = parseTime(assignedAt)
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = parseTime(updatedAt.String)
	}
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
