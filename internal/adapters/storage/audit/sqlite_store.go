package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "resultroad/internal/domain/audit"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new AuditStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const auditColumns = "id, timestamp, category, action, severity, actor_id, actor_email, actor_role, resource_id, resource_type, description"

// Save persists an audit Event. Append-only; there is no update path.
// PRE: event has an ID and timestamp
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Event) error {
	query := `INSERT INTO audit_event (` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Timestamp.Format(timeFormat),
		string(entity.Category),
		string(entity.Action),
		string(entity.Severity),
		entity.ActorID,
		entity.ActorEmail,
		entity.ActorRole,
		entity.ResourceID,
		entity.ResourceType,
		entity.Description,
	)
	return err
}

// List retrieves audit events based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	var b strings.Builder
	var args []interface{}
	b.WriteString("SELECT " + auditColumns + " FROM audit_event")
	writeConds(&b, &args, filter)
	b.WriteString(" ORDER BY timestamp DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Event
	for rows.Next() {
		var e domain.Event
		var ts, category, action, severity string
		err := rows.Scan(&e.ID, &ts, &category, &action, &severity,
			&e.ActorID, &e.ActorEmail, &e.ActorRole, &e.ResourceID, &e.ResourceType, &e.Description)
		if err != nil {
			return nil, err
		}
		e.Category = domain.Category(category)
		e.Action = domain.Action(action)
		e.Severity = domain.Severity(severity)
		e.Timestamp, _ = parseTime(ts)
		results = append(results, e)
	}
	return results, rows.Err()
}

// Count returns the number of audit events matching the filter.
// PRE: filter has valid parameters
// POST: Returns count of matching entities
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	var b strings.Builder
	var args []interface{}
	b.WriteString("SELECT COUNT(*) FROM audit_event")
	writeConds(&b, &args, filter)
	var count int
	err := s.db.QueryRowContext(ctx, b.String(), args...).Scan(&count)
	return count, err
}

func writeConds(b *strings.Builder, args *[]interface{}, filter ListFilter) {
	var conds []string
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		*args = append(*args, filter.Category)
	}
	if filter.ActorID != "" {
		conds = append(conds, "actor_id = ?")
		*args = append(*args, filter.ActorID)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
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
