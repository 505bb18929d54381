package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations applies all pending migrations from sourceURL
// (e.g. "file://./migrations"). No pending migrations is not an error.
func RunMigrations(dsn, sourceURL string) error {
	return withMigrator(dsn, sourceURL, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("postgres: run migrations up: %w", err)
		}
		return nil
	})
}

// RunMigrationsDown rolls back all migrations.
func RunMigrationsDown(dsn, sourceURL string) error {
	return withMigrator(dsn, sourceURL, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("postgres: run migrations down: %w", err)
		}
		return nil
	})
}

// MigrationVersion reports the current schema version and dirty flag.
// A database with no applied migrations reports version 0.
func MigrationVersion(dsn, sourceURL string) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := withMigrator(dsn, sourceURL, func(m *migrate.Migrate) error {
		v, d, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("postgres: read migration version: %w", err)
		}
		version, dirty = v, d
		return nil
	})
	return version, dirty, err
}

func withMigrator(dsn, sourceURL string, fn func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()
	return fn(m)
}
