package submission

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "resultroad/internal/domain/submission"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new SubmissionStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const submissionColumns = "id, kind, submitter_id, submitter_role, program_id, rating, notes, created_at"

// GetByID retrieves a Submission by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Submission, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+submissionColumns+" FROM submission WHERE id = ?", id)
	entity, err := scanSubmission(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Submission{}, fmt.Errorf("submission not found: %w", err)
	}
	return entity, err
}

// Save persists a Submission to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Submission) error {
	query := `INSERT INTO submission (id, kind, submitter_id, submitter_role, program_id, rating, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rating=excluded.rating,
			notes=excluded.notes`

	var programID interface{}
	if entity.ProgramID != "" {
		programID = entity.ProgramID
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Kind,
		entity.SubmitterID,
		entity.SubmitterRole,
		programID,
		entity.Rating,
		entity.Notes,
		entity.CreatedAt.Format(timeFormat),
	)
	return err
}

// Delete removes a Submission from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM submission WHERE id = ?", id)
	return err
}

// List retrieves Submissions based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Submission, error) {
	query, args := buildListQuery("SELECT "+submissionColumns+" FROM submission", filter, true)
	return s.queryList(ctx, query, args...)
}

// Count returns the number of submissions matching the filter.
// PRE: filter has valid parameters
// POST: Returns count of matching entities
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	query, args := buildListQuery("SELECT COUNT(*) FROM submission", filter, false)
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// ListByKind retrieves the newest submissions of one kind.
// PRE: kind is valid, limit > 0
// POST: Returns up to limit entities, newest first
func (s *SQLiteStore) ListByKind(ctx context.Context, kind string, limit int) ([]domain.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submission WHERE kind = ? ORDER BY created_at DESC LIMIT ?"
	return s.queryList(ctx, query, kind, limit)
}

// ListBySubmitter retrieves submissions made by one user, newest first.
// PRE: submitterID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submission WHERE submitter_id = ? ORDER BY created_at DESC"
	return s.queryList(ctx, query, submitterID)
}

// buildListQuery appends WHERE/ORDER/LIMIT clauses for the filter.
func buildListQuery(base string, filter ListFilter, paged bool) (string, []interface{}) {
	var b strings.Builder
	var args []interface{}
	b.WriteString(base)

	var conds []string
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Role != "" {
		conds = append(conds, "submitter_role = ?")
		args = append(args, filter.Role)
	}
	if filter.ProgramID != "" {
		conds = append(conds, "program_id = ?")
		args = append(args, filter.ProgramID)
	}
	if filter.Search != "" {
		conds = append(conds, "notes LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if paged {
		col := map[string]string{
			"created": "created_at",
			"kind":    "kind",
			"rating":  "rating",
		}[filter.Sort]
		if col == "" {
			col = "created_at"
		}
		dir := "DESC"
		if filter.Dir == "asc" {
			dir = "ASC"
		}
		b.WriteString(fmt.Sprintf(" ORDER BY %s %s", col, dir))

		limit := filter.Limit
		if limit <= 0 {
			limit = 100
		}
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, filter.Offset)
	}

	return b.String(), args
}

func (s *SQLiteStore) queryList(ctx context.Context, query string, args ...interface{}) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Submission
	for rows.Next() {
		entity, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanSubmission extracts a Submission from a row scanner function.
func scanSubmission(scan func(dest ...interface{}) error) (domain.Submission, error) {
	var entity domain.Submission
	var createdAt string
	var programID sql.NullString
	err := scan(
		&entity.ID,
		&entity.Kind,
		&entity.SubmitterID,
		&entity.SubmitterRole,
		&programID,
		&entity.Rating,
		&entity.Notes,
		&createdAt,
	)
	if err != nil {
		return domain.Submission{}, err
	}
	if programID.Valid {
		entity.ProgramID = programID.String
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
