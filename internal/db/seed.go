package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedFixtures populates the database with development fixtures for the
// "acme" tenant: a handful of runs sharing container artifacts so that a
// correlate invocation has something to link.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)
	tenant := "acme"

	runs := []struct{ id, job, status string }{
		{"RUN-001", "api-build", "succeeded"},
		{"RUN-002", "api-deploy-staging", "succeeded"},
		{"RUN-003", "api-deploy-prod", "succeeded"},
		{"RUN-004", "ui-build", "failed"},
	}
	for _, r := range runs {
		if _, err := database.Exec(
			"INSERT INTO runs (tenant, id, job, status, created_at) VALUES (?, ?, ?, ?, ?)",
			tenant, r.id, r.job, r.status, now,
		); err != nil {
			return fmt.Errorf("seed runs: %w", err)
		}
	}

	// RUN-001 builds the api image, RUN-002 and RUN-003 deploy it.
	// RUN-004 builds an unrelated ui image.
	artifacts := []struct {
		runID, name, qualifier, location, hash string
		output                                 bool
	}{
		{"RUN-001", "acme/api", "1.4.2", "registry.acme.io", "sha256:9f1a", true},
		{"RUN-002", "acme/api", "1.4.2", "registry.acme.io", "sha256:9f1a", false},
		{"RUN-003", "acme/api", "1.4.2", "registry.acme.io", "sha256:9f1a", false},
		{"RUN-004", "acme/ui", "0.9.0", "registry.acme.io", "sha256:77c3", true},
	}
	for _, a := range artifacts {
		isInput := 1
		isOutput := 0
		if a.output {
			isInput = 0
			isOutput = 1
		}
		if _, err := database.Exec(
			`INSERT INTO artifacts (tenant, id, run_id, type, location, name, qualifier, hash, is_input, is_output, created_at)
			 VALUES (?, ?, ?, 'container', ?, ?, ?, ?, ?, ?, ?)`,
			tenant, uuid.NewString(), a.runID, a.location, a.name, a.qualifier, a.hash, isInput, isOutput, now,
		); err != nil {
			return fmt.Errorf("seed artifacts: %w", err)
		}
	}

	return nil
}
