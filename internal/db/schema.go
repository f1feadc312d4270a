package db

// SchemaSQL is the complete schema for fresh buildgraph installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL() so that repository code and tests cannot
// drift apart: a repository referencing a column that does not exist here
// fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Job runs (one row per recorded execution of a CI/CD job)
CREATE TABLE IF NOT EXISTS runs (
	tenant TEXT NOT NULL,
	id TEXT NOT NULL,
	job TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK(status IN ('pending', 'running', 'succeeded', 'failed', 'aborted')) DEFAULT 'pending',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (tenant, id)
);

-- Artifacts produced or consumed by runs.
-- String attribute columns are NOT NULL DEFAULT '': the empty string is the
-- "absent" sentinel, never NULL, so the uniqueness constraint below stays
-- well-defined.
CREATE TABLE IF NOT EXISTS artifacts (
	tenant TEXT NOT NULL,
	id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	qualifier TEXT NOT NULL DEFAULT '',
	hash TEXT NOT NULL DEFAULT '',
	is_input INTEGER NOT NULL DEFAULT 0,
	is_output INTEGER NOT NULL DEFAULT 0,
	metadata TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (tenant, id),
	FOREIGN KEY (tenant, run_id) REFERENCES runs(tenant, id) ON DELETE CASCADE,
	UNIQUE(tenant, run_id, type, location, name, qualifier, hash)
);

CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(tenant, run_id);
CREATE INDEX IF NOT EXISTS idx_artifacts_type ON artifacts(tenant, type);
CREATE INDEX IF NOT EXISTS idx_artifacts_hash ON artifacts(tenant, hash);

-- Directed relatedness edges between runs. Symmetry is upheld by the
-- producer (both directions are inserted as two rows), not by a constraint.
CREATE TABLE IF NOT EXISTS run_mappings (
	tenant TEXT NOT NULL,
	id TEXT NOT NULL,
	run1 TEXT NOT NULL,
	run2 TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (tenant, id),
	FOREIGN KEY (tenant, run1) REFERENCES runs(tenant, id) ON DELETE CASCADE,
	FOREIGN KEY (tenant, run2) REFERENCES runs(tenant, id) ON DELETE CASCADE,
	UNIQUE(tenant, run1, run2)
);

CREATE INDEX IF NOT EXISTS idx_run_mappings_run1 ON run_mappings(tenant, run1);
CREATE INDEX IF NOT EXISTS idx_run_mappings_run2 ON run_mappings(tenant, run2);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Fresh install: no schema_version table means nothing has been applied yet.
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec(SchemaSQL)
		if err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		// Mark all migrations as applied for fresh installs
		for _, m := range migrations {
			_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version)
			if err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
