// Package testutils provides shared helpers for integration tests. The
// database helpers activate only when DATABASE_URL is set, so unit test
// runs stay free of external dependencies.
package testutils

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/storely/storely-api/migrations"
)

// IsIntegrationTestEnvironment reports whether integration tests should
// run against a real database.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// GetTestDB opens a connection to the test database and ensures the
// schema is migrated. Tests without DATABASE_URL are skipped.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("Skipping integration test - DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", os.Getenv("DATABASE_URL"))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."), "failed to migrate test database")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so
// each test sees a clean database regardless of what it writes.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
