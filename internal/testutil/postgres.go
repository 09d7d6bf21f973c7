package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/target/recipe-finder/internal/migrate"
)

// TestDBConfig holds configuration for test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test profile).
// CI environments should set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "recipes"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "recipes"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "recipes"),
	}
}

// DSN renders the config as a pgx connection URL.
func (c TestDBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + getEnvOrDefault("DB_SSL_MODE", "disable"),
	}
	return u.String()
}

func openPinged(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SetupTestDB connects to the shared test database, migrates it, and empties the users table.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()

	db, err := openPinged(DefaultTestDBConfig().DSN(), 2*time.Second)
	if err != nil {
		skipOrFail(t, requireDB(), "Test database not available: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := migrate.Run(ctx, db, nil); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	CleanupTestDB(t, db)
	return db
}

// CleanupTestDB removes all rows written by tests.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		t.Fatalf("Failed to clean up table users: %v", err)
	}
}

// TeardownTestDB empties and closes the database connection.
func TeardownTestDB(t TestingTB, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}
	CleanupTestDB(t, db)
	if err := db.Close(); err != nil {
		t.Fatal("Failed to close database:", err)
	}
}

// WithAutoDB hands fn a migrated database. With TEST_DB_EPHEMERAL set it uses a
// throwaway schema per test, otherwise the shared test database.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	if envBool("TEST_DB_EPHEMERAL") {
		fn(SetupEphemeralSchemaDB(t))
		return
	}
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)
	fn(db)
}

// SetupEphemeralSchemaDB creates a unique schema, points search_path at it, runs
// migrations, and drops the schema when the test completes.
func SetupEphemeralSchemaDB(t TestingTB) *sql.DB {
	t.Helper()

	cfg := DefaultTestDBConfig()
	adminDB, err := openPinged(cfg.DSN(), 2*time.Second)
	if err != nil {
		skipOrFail(t, requireDB(), "Test database not available: %v", err)
		return nil
	}

	schema := generateSchemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := adminDB.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		_ = adminDB.Close()
		t.Fatalf("Failed to create schema %s: %v", schema, err)
	}

	u, _ := url.Parse(cfg.DSN())
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := openPinged(u.String(), 5*time.Second)
	if err != nil {
		_ = adminDB.Close()
		t.Fatal("Failed to open schema-scoped DB:", err)
	}

	registerCleanup(t, func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		_ = db.Close()
		if _, err := adminDB.ExecContext(cctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("Warning: failed to drop schema %s: %v", schema, err)
		}
		_ = adminDB.Close()
	})

	if _, err := migrate.Run(ctx, db, nil); err != nil {
		t.Fatal("Failed to run migrations in ephemeral schema:", err)
	}
	t.Logf("Using ephemeral schema: %s", schema)
	return db
}

// generateSchemaName creates a lowercase alphanumeric schema name with prefix.
func generateSchemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}
