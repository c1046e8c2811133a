package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirtySchema means a previous migration failed halfway and the schema
// needs a manual fix (migrate force) before the service can start.
var ErrDirtySchema = errors.New("database schema is dirty")

// RunMigrations applies the pending continuity, memory and turn log
// migrations found in dir.
func RunMigrations(dsn, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving migrations dir %q: %w", dir, err)
	}
	if info, err := os.Stat(abs); err != nil {
		return fmt.Errorf("migrations dir %q: %w", abs, err)
	} else if !info.IsDir() {
		return fmt.Errorf("migrations dir %q is not a directory", abs)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), dsn)
	if err != nil {
		return fmt.Errorf("opening migrations in %q: %w", abs, err)
	}
	defer m.Close()

	before, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, before)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations from %q: %w", abs, err)
	}

	after, _, _ := m.Version()
	if after == before {
		slog.Info("chat schema up to date", "version", after)
	} else {
		slog.Info("chat schema migrated", "from", before, "to", after, "dir", abs)
	}
	return nil
}
