package video

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "resultroad/internal/domain/video"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db SQLDB
}

// NewSQLiteStore creates a new VideoStore.
func NewSQLiteStore(db SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const videoColumns = "id, role, title, url, created_by, created_at"

// GetByRole retrieves the orientation video configured for a role.
// PRE: role is non-empty
// POST: Returns the entity or an error if no video is configured
func (s *SQLiteStore) GetByRole(ctx context.Context, role string) (domain.Video, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM video WHERE role = ?", role)
	entity, err := scanVideo(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Video{}, fmt.Errorf("video not found: %w", err)
	}
	return entity, err
}

// Save persists a Video. One video per role; saving replaces it.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by role)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Video) error {
	query := `INSERT INTO video (id, role, title, url, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(role) DO UPDATE SET
			title=excluded.title,
			url=excluded.url`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Role,
		entity.Title,
		entity.URL,
		entity.CreatedBy,
		entity.CreatedAt.Format(timeFormat),
	)
	return err
}

// Delete removes a Video from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM video WHERE id = ?", id)
	return err
}

// List retrieves all configured videos ordered by role.
// PRE: none
// POST: Returns all videos
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Video, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+videoColumns+" FROM video ORDER BY role")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Video
	for rows.Next() {
		entity, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanVideo extracts a Video from a row scanner function.
func scanVideo(scan func(dest ...interface{}) error) (domain.Video, error) {
	var entity domain.Video
	var createdAt string
	err := scan(&entity.ID, &entity.Role, &entity.Title, &entity.URL, &entity.CreatedBy, &createdAt)
	if err != nil {
		return domain.Video{}, err
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
