package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is a single schema migration step. Migrations are applied
// in order; each runs inside its own transaction together with the
// schema_version bump.
type migration struct {
	version int
	apply   func(tx *sql.Tx) error
}

// migrations is the ordered migration chain. Append only — never edit
// an applied migration.
var migrations = []migration{
	{version: 1, apply: migrateBaseline},
}

// LatestSchemaVersion returns the version the database is migrated to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the current schema version, 0 if the database
// has never been migrated.
// PRE: db is a valid database connection
// POST: Returns the recorded version without modifying the database
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// MigrateDB brings the database schema to the latest version.
// PRE: db is a valid database connection
// POST: All pending migrations are applied; schema_version records each step
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("db_migrated", "version", m.version, "path", dbPath)
	}

	return nil
}

// migrateBaseline creates the initial schema. IF NOT EXISTS so it can
// adopt a pre-migration database without destroying data.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS reset_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS profile (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		last_login_at TEXT,
		email_notifications INTEGER NOT NULL DEFAULT 1,
		theme TEXT NOT NULL DEFAULT 'light',
		FOREIGN KEY (id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS program (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL,
		duration_weeks INTEGER NOT NULL,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignment (
		id TEXT PRIMARY KEY,
		program_id TEXT NOT NULL,
		participant_id TEXT NOT NULL,
		instructor_id TEXT,
		status TEXT NOT NULL,
		assigned_by TEXT NOT NULL,
		assigned_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (program_id) REFERENCES program(id),
		FOREIGN KEY (participant_id) REFERENCES profile(id)
	);

	CREATE TABLE IF NOT EXISTS group_session (
		id TEXT PRIMARY KEY,
		program_id TEXT NOT NULL,
		instructor_id TEXT,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		starts_at TEXT NOT NULL,
		ends_at TEXT NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 20,
		created_at TEXT NOT NULL,
		FOREIGN KEY (program_id) REFERENCES program(id)
	);

	CREATE TABLE IF NOT EXISTS registration (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		participant_id TEXT NOT NULL,
		registered_at TEXT NOT NULL,
		UNIQUE (session_id, participant_id),
		FOREIGN KEY (session_id) REFERENCES group_session(id),
		FOREIGN KEY (participant_id) REFERENCES profile(id)
	);

	CREATE TABLE IF NOT EXISTS video (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS acknowledgement (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		role TEXT NOT NULL,
		watched_at TEXT NOT NULL,
		UNIQUE (account_id, role),
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS submission (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		submitter_id TEXT NOT NULL,
		submitter_role TEXT NOT NULL,
		program_id TEXT,
		rating INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (submitter_id) REFERENCES profile(id)
	);

	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_email TEXT NOT NULL DEFAULT '',
		actor_role TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
