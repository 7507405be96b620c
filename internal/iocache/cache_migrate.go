package iocache

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// migrationsTable records the applied cache schema version.
const migrationsTable = "gitpulse_schema_migrations"

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// MigrateCache moves the cache schema of the backend to targetVersion.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateCache(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for the none backend")
	}
	from, to, err := migrateSchema(backend, connStr, targetVersion)
	if err != nil {
		return err
	}
	log := contract.Logger.WithField("backend", backend).WithField("from", from).WithField("to", to)
	if from == to {
		log.Info("No migration needed")
	} else {
		log.Info("Migrated cache schema")
	}
	return nil
}

// migrateSchema opens a dedicated connection, applies the embedded
// migrations for the backend and closes the connection again. It reports
// the schema version before and after.
func migrateSchema(backend schema.DatabaseBackend, connStr string, targetVersion int) (uint, uint, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return 0, 0, err
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	default:
		err = fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		_ = db.Close()
		return 0, 0, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		_ = db.Close()
		return 0, 0, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(backend), driver)
	if err != nil {
		_ = db.Close()
		return 0, 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		_, _ = m.Close()
		_ = db.Close() // no-op when the driver already closed it
	}()

	return applyMigration(m, targetVersion)
}

// applyMigration runs the requested migration against m.
func applyMigration(m *migrate.Migrate, targetVersion int) (uint, uint, error) {
	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return from, from, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", from)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return from, from, nil
	}
	if err != nil {
		return from, from, fmt.Errorf("failed to migrate cache schema from version %d: %w", from, err)
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return from, 0, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return from, to, nil
}
