package persistence

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/platform/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded SQL migrations to a PostgreSQL database.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *slog.Logger
}

// NewMigrator creates a Migrator on the connection pool of db. Closing the
// Migrator also closes that pool.
func NewMigrator(db *gorm.DB, logger *slog.Logger) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Migrator{migrate: m, logger: logger.With(slog.String("component", "migrate"))}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up() error {
	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("no migrations to apply")
			return nil
		}

		return fmt.Errorf("migrating up: %w", err)
	}

	m.logVersion("migrations applied")

	return nil
}

// Down rolls back every migration.
func (m *Migrator) Down() error {
	if err := m.migrate.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("no migrations to roll back")
			return nil
		}

		return fmt.Errorf("migrating down: %w", err)
	}

	m.logger.Info("all migrations rolled back")

	return nil
}

// Steps applies n migrations, rolling back when n is negative.
func (m *Migrator) Steps(n int) error {
	if err := m.migrate.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}

		return fmt.Errorf("migrating %d steps: %w", n, err)
	}

	m.logVersion("migration steps applied")

	return nil
}

// Version returns the applied version. It is 0 when nothing was applied.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}

// Close releases the source and the database connection.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

func (m *Migrator) logVersion(msg string) {
	version, dirty, err := m.Version()
	if err != nil {
		m.logger.Warn("reading migration version failed", slog.String("error", err.Error()))
		return
	}

	m.logger.Info(msg, slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

// Migrate brings the schema up to date. PostgreSQL runs the versioned SQL
// migrations; SQLite, used for local runs and tests, is created from the records.
// The Migrator is not closed here since that would close db as well.
func Migrate(db *gorm.DB, driver string, logger *slog.Logger) error {
	if driver == config.DriverSQLite {
		if err := db.AutoMigrate(models()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}

		return nil
	}

	m, err := NewMigrator(db, logger)
	if err != nil {
		return err
	}

	return m.Up()
}
