// Package migrations holds the journal schema and applies it.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

const migrationDir = "files"

// Status is the schema state of a journal database.
type Status struct {
	Version uint // 0 when no migration has run
	Latest  uint // highest version embedded in the binary
	Dirty   bool
}

// Err explains why a journal in this state can not be used, or returns nil.
func (s Status) Err() error {
	switch {
	case s.Version == 0:
		return errors.New("journal has no schema version (needs migration)")
	case s.Dirty:
		return fmt.Errorf("journal is in dirty state at version %d", s.Version)
	case s.Version < s.Latest:
		return fmt.Errorf("journal is at version %d but latest is %d", s.Version, s.Latest)
	case s.Version > s.Latest:
		return fmt.Errorf("journal version %d is ahead of binary version %d", s.Version, s.Latest)
	}
	return nil
}

// ReadStatus reports the schema version recorded in db.
func ReadStatus(db *sql.DB) (Status, error) {
	latest, err := LatestVersion()
	if err != nil {
		return Status{}, err
	}

	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}
	// m is not closed: that would close db, which the caller owns.

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Latest: latest}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("reading journal version: %w", err)
	}
	return Status{Version: version, Latest: latest, Dirty: dirty}, nil
}

// CheckStatus fails unless db is at the latest schema version.
func CheckStatus(db *sql.DB) error {
	st, err := ReadStatus(db)
	if err != nil {
		return err
	}
	return st.Err()
}

// MigrateUp applies all pending journal migrations.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating journal: %w", err)
	}
	return nil
}

// LatestVersion returns the highest migration version embedded in the binary.
func LatestVersion() (uint, error) {
	entries, err := migrationFiles.ReadDir(migrationDir)
	if err != nil {
		return 0, fmt.Errorf("listing migrations: %w", err)
	}

	var latest uint
	for _, e := range entries {
		mig, err := source.Parse(e.Name())
		if err != nil {
			return 0, fmt.Errorf("parsing migration %s: %w", e.Name(), err)
		}
		latest = max(latest, mig.Version)
	}
	if latest == 0 {
		return 0, errors.New("no journal migrations embedded")
	}
	return latest, nil
}

// newMigrate binds the embedded migrations to db.
func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, migrationDir)
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("opening journal driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("binding migrations to journal: %w", err)
	}
	return m, nil
}
