package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "resultroad/internal/domain/profile"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new ProfileStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const profileColumns = "id, email, display_name, role, status, created_at, updated_at, last_login_at, email_notifications, theme"

// GetByID retrieves a Profile by its ID (the owning account ID).
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE id = ?", id)
	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Profile by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE email = ?", email)
	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
	query := `INSERT INTO profile (id, email, display_name, role, status, created_at, updated_at, last_login_at, email_notifications, theme)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email,
			display_name=excluded.display_name,
			role=excluded.role,
			status=excluded.status,
			updated_at=excluded.updated_at,
			last_login_at=excluded.last_login_at,
			email_notifications=excluded.email_notifications,
			theme=excluded.theme`

	notifications := 0
	if entity.Preferences.EmailNotifications {
		notifications = 1
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.DisplayName,
		entity.Role,
		entity.Status,
		entity.CreatedAt.Format(timeFormat),
		nullableTime(entity.UpdatedAt),
		nullableTime(entity.LastLoginAt),
		notifications,
		entity.Preferences.Theme,
	)
	return err
}

// List retrieves Profiles based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Profile, error) {
	query, args := buildListQuery("SELECT "+profileColumns+" FROM profile", filter, true)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Profile
	for rows.Next() {
		entity, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of profiles matching the filter.
// PRE: filter has valid parameters
// POST: Returns count of matching entities
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	query, args := buildListQuery("SELECT COUNT(*) FROM profile", filter, false)
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// buildListQuery appends WHERE/ORDER/LIMIT clauses for the filter.
func buildListQuery(base string, filter ListFilter, paged bool) (string, []interface{}) {
	var b strings.Builder
	var args []interface{}
	b.WriteString(base)

	var conds []string
	if filter.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conds = append(conds, "(email LIKE ? OR display_name LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if paged {
		col := map[string]string{
			"email":   "email",
			"name":    "display_name",
			"role":    "role",
			"created": "created_at",
		}[filter.Sort]
		if col == "" {
			col = "created_at"
		}
		dir := "ASC"
		if filter.Dir == "desc" || filter.Sort == "" {
			dir = "DESC"
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

// scanProfile extracts a Profile from a row scanner function.
func scanProfile(scan func(dest ...interface{}) error) (domain.Profile, error) {
	var entity domain.Profile
	var createdAt string
	var updatedAt, lastLoginAt sql.NullString
	var notifications int
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.DisplayName,
		&entity.Role,
		&entity.Status,
		&createdAt,
		&updatedAt,
		&lastLoginAt,
		&notifications,
		&entity.Preferences.Theme,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	entity.Preferences.EmailNotifications = notifications != 0
	entity.CreatedAt, _ = parseTime(createdAt)
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = parseTime(updatedAt.String)
	}
	if lastLoginAt.Valid && lastLoginAt.String != "" {
		entity.LastLoginAt, _ = parseTime(lastLoginAt.String)
	}
	return entity, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
