package state

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// journalMigrations holds the goose migrations that create the runs and
// run_entries tables.
//
//go:embed migrations/*.sql
var journalMigrations embed.FS

const migrationsDir = "migrations"

// Migrate brings the journal schema up to date. It is safe to call on every
// open; applied migrations are skipped.
func (s *SQLiteStore) Migrate() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	return MigrateWithDB(s.db)
}

// MigrateWithDB applies the journal migrations to db. goose keeps its own
// version table next to runs and run_entries.
func MigrateWithDB(db *sql.DB) error {
	if err := useJournalMigrations(); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to migrate run journal: %w", err)
	}
	return nil
}

// GetMigrationVersion reports the journal schema version, 0 for a database
// that has never been migrated.
func (s *SQLiteStore) GetMigrationVersion() (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if err := useJournalMigrations(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.db)
}

func useJournalMigrations() error {
	goose.SetBaseFS(journalMigrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}
