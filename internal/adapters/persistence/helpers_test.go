package persistence

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a migrated in-memory SQLite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      "file::memory:",
		LogLevel: "silent",
	}, discardLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db, config.DriverSQLite, discardLogger()))

	return db
}

// newMockDB opens GORM on a sqlmock connection speaking the PostgreSQL dialect.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 NewGormLogger(discardLogger(), ParseGormLogLevel("silent")),
	})
	require.NoError(t, err)

	return db, mock
}

func saveEmployer(t *testing.T, repo *EmployerRepository, name string) *domain.Employer {
	t.Helper()

	employer, err := repo.Save(context.Background(), domain.NewEmployer().WithName(name))
	require.NoError(t, err)
	require.NotNil(t, employer.ID)

	return employer
}

func saveQuote(t *testing.T, repo *QuoteRepository, name string, date time.Time, employer *domain.Employer) *domain.Quote {
	t.Helper()

	quote, err := repo.Save(context.Background(),
		domain.NewQuote().WithName(name).WithQuoteDate(date).WithEmployer(employer))
	require.NoError(t, err)

	return quote
}

func rawDB(t *testing.T, db *gorm.DB) *sql.DB {
	t.Helper()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	return sqlDB
}
