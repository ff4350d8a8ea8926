package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies every pending "up" migration found at migrationsURL
// (for example "file://migrations").
func RunMigrations(databaseURL, migrationsURL string, logger *slog.Logger) error {
	return withMigrator(databaseURL, migrationsURL, logger, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(databaseURL, migrationsURL string, steps int, logger *slog.Logger) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	return withMigrator(databaseURL, migrationsURL, logger, func(m *migrate.Migrate) error {
		return m.Steps(-steps)
	})
}

// withMigrator opens its own database/sql connection through the pgx stdlib
// driver, runs fn and closes the migrator.
func withMigrator(databaseURL, migrationsURL string, logger *slog.Logger, fn func(m *migrate.Migrate) error) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	runErr := fn(m)
	if runErr != nil && !errors.Is(runErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", runErr)
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return fmt.Errorf("failed to close migrator: %w", errors.Join(sourceErr, dbErr))
	}

	if errors.Is(runErr, migrate.ErrNoChange) {
		logger.Info("No migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
