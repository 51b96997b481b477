package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // PostgreSQL driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver
)

const fileScheme = "file://"

// RunMigrations brings the snapshot and outbox tables up to date.
// migrationsPath may be a plain directory or a file:// URL.
func RunMigrations(databaseURL string, migrationsPath string) error {
	sourceURL, err := migrationsURL(migrationsPath)
	if err != nil {
		return err
	}
	if databaseURL == "" {
		return errors.New("database URL cannot be empty")
	}

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	return nil
}

func migrationsURL(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == fileScheme {
		return "", errors.New("migrations path cannot be empty")
	}
	if strings.HasPrefix(path, fileScheme) {
		return path, nil
	}
	return fileScheme + path, nil
}
