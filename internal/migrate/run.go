// Package migrate applies the embedded Postgres schema for the credential store.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const createVersionsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Versions lists the embedded migration versions in apply order.
func Versions() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			versions = append(versions, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Run applies every embedded migration not yet recorded in schema_migrations.
// It is safe to call on every start. It returns the versions applied by this call.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "migrations")

	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	versions, err := Versions()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, version := range versions {
		done, err := isApplied(ctx, db, version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}
		logger.InfoContext(ctx, "applying migration", "version", version)
		if err := apply(ctx, db, version); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}
	return applied, nil
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	const q = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := db.QueryRowContext(ctx, q, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

func apply(ctx context.Context, db *sql.DB, version string) (err error) {
	body, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return fmt.Errorf("read migration %s: %w", version, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback migration %s: %w", version, rbErr))
		}
	}()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("exec migration %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}
	return nil
}
