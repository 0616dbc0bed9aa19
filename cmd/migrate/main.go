// Package main applies the embedded schema migrations to the configured
// PostgreSQL database.
//
// Usage:
//
//	migrate [-profile local] up|down|version
//	migrate [-profile local] steps N
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/boostclient/boostclient-service/internal/adapters/persistence"
	"github.com/boostclient/boostclient-service/internal/platform/config"
	"github.com/boostclient/boostclient-service/internal/platform/logging"
)

var errUsage = errors.New("usage: migrate [-profile name] up|down|version|steps N")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	profile := fs.String("profile", envOr("APP_ENVIRONMENT", "local"), "configuration profile")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("versioned migrations need the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name + "-migrate",
		Version: cfg.App.Version,
	})

	db, err := persistence.Open(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	m, err := persistence.NewMigrator(db, logger)
	if err != nil {
		_ = persistence.Close(db)
		return err
	}

	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			logger.Error("closing migrator", slog.Any("error", closeErr))
		}
	}()

	return execute(m, fs.Args())
}

func execute(m *persistence.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if len(args) != 2 {
			return errUsage
		}

		n, err := strconv.Atoi(args[1])
		if err != nil || n == 0 {
			return fmt.Errorf("steps needs a non-zero integer, got %q", args[1])
		}

		return m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("reading version: %w", err)
		}

		fmt.Printf("version %d (dirty: %t)\n", version, dirty)

		return nil
	default:
		return errUsage
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
