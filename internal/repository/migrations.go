package repository

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsPath = "file://internal/repository/migrations"

// RunMigrations applies all pending schema migrations. A dirty version left
// behind by an interrupted run is forced back to the previous version and the
// migration is retried once.
func RunMigrations(databaseURL string) error {
	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	var dirty migrate.ErrDirty
	if !errors.As(err, &dirty) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	prev := dirty.Version - 1
	if prev < 0 {
		prev = 0
	}
	if err := m.Force(prev); err != nil {
		return fmt.Errorf("reset dirty migration version %d: %w", dirty.Version, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations after dirty reset: %w", err)
	}

	return nil
}
