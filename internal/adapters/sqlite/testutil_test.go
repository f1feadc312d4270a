// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup goes through setupTestDB, which uses
// db.GetSchemaSQL() so tests and repository code cannot drift apart. Do not
// hardcode CREATE TABLE statements in test files; use the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/buildgraph/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedRun inserts a test run and returns its ID.
func seedRun(t *testing.T, db *sql.DB, tenant, id string) string {
	t.Helper()
	if tenant == "" {
		tenant = "acme"
	}
	if id == "" {
		id = "RUN-001"
	}
	_, err := db.Exec(
		"INSERT INTO runs (tenant, id, job, status) VALUES (?, ?, 'build', 'succeeded')",
		tenant, id,
	)
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	return id
}

// seedArtifact inserts a test container artifact and returns its ID.
func seedArtifact(t *testing.T, db *sql.DB, tenant, id, runID, name, qualifier, location, hash string) string {
	t.Helper()
	if tenant == "" {
		tenant = "acme"
	}
	_, err := db.Exec(
		`INSERT INTO artifacts (tenant, id, run_id, type, location, name, qualifier, hash, is_output)
		 VALUES (?, ?, ?, 'container', ?, ?, ?, ?, 1)`,
		tenant, id, runID, location, name, qualifier, hash,
	)
	if err != nil {
		t.Fatalf("failed to seed artifact: %v", err)
	}
	return id
}

// seedMapping inserts a test mapping edge and returns its ID.
func seedMapping(t *testing.T, db *sql.DB, tenant, id, run1, run2 string) string {
	t.Helper()
	if tenant == "" {
		tenant = "acme"
	}
	_, err := db.Exec(
		"INSERT INTO run_mappings (tenant, id, run1, run2) VALUES (?, ?, ?, ?)",
		tenant, id, run1, run2,
	)
	if err != nil {
		t.Fatalf("failed to seed mapping: %v", err)
	}
	return id
}
