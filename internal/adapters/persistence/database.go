// Package persistence stores domain entities in a relational database using GORM.
//
// Every entity type is served by the generic Repository, configured with a
// Schema describing its table record, relations and sortable fields. Writes
// issued through a context returned by Transactor share one transaction.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/platform/config"
	"github.com/boostclient/boostclient-service/internal/ports"
)

// ErrUnsupportedDriver is returned by Open for drivers other than postgres and sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

const pingTimeout = 5 * time.Second

// Open connects to the configured database and applies the pool settings.
// SQLite is limited to a single connection so that in-memory databases and
// transactions see one consistent store.
func Open(cfg *config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(logger, ParseGormLogLevel(cfg.LogLevel), WithSlowThreshold(cfg.SlowThreshold)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)

		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("enabling sqlite foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging %s database: %w", cfg.Driver, err)
	}

	logger.Info("database connected",
		slog.String("driver", cfg.Driver),
		slog.Int("max_open_conns", sqlDB.Stats().MaxOpenConnections),
	)

	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}

	return sqlDB.Close()
}

// HealthChecker reports the database as unhealthy when it does not answer a ping.
func HealthChecker(db *gorm.DB) ports.HealthChecker {
	return ports.CheckerFunc{
		CheckName: "database",
		Fn: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}

			return sqlDB.PingContext(ctx)
		},
	}
}
