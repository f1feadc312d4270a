package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/buildgraph/internal/ports/secondary"
)

const artifactColumns = "tenant, id, run_id, type, location, name, qualifier, hash, is_input, is_output, metadata, created_at"

// ArtifactRepository implements secondary.ArtifactRepository with SQLite.
type ArtifactRepository struct {
	db *sql.DB
}

// NewArtifactRepository creates a new SQLite artifact repository.
func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// Create persists a new artifact. An empty ID is assigned a fresh UUID.
func (r *ArtifactRepository) Create(ctx context.Context, artifact *secondary.ArtifactRecord) error {
	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO artifacts (tenant, id, run_id, type, location, name, qualifier, hash, is_input, is_output, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		artifact.Tenant, artifact.ID, artifact.RunID, artifact.Type,
		artifact.Location, artifact.Name, artifact.Qualifier, artifact.Hash,
		artifact.IsInput, artifact.IsOutput, artifact.Metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}

	return nil
}

// GetByID retrieves an artifact by its ID. Returns (nil, nil) when absent.
func (r *ArtifactRepository) GetByID(ctx context.Context, tenant, id string) (*secondary.ArtifactRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+artifactColumns+" FROM artifacts WHERE tenant = ? AND id = ?",
		tenant, id,
	)

	record, err := scanArtifact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}

	return record, nil
}

// List retrieves artifacts matching the given filters, one page at a time,
// ordered by ID. Filter IDs that match nothing are silently absent from the
// result.
func (r *ArtifactRepository) List(ctx context.Context, tenant string, filters secondary.ArtifactFilters, page, pageSize int) ([]*secondary.ArtifactRecord, error) {
	clauses := []string{"tenant = ?"}
	args := []any{tenant}

	inClause(&clauses, &args, "id", filters.IDs)
	notInClause(&clauses, &args, "id", filters.ExcludeIDs)
	inClause(&clauses, &args, "run_id", filters.RunIDs)
	inClause(&clauses, &args, "type", filters.Types)
	inClause(&clauses, &args, "name", filters.Names)
	inClause(&clauses, &args, "qualifier", filters.Qualifiers)
	inClause(&clauses, &args, "location", filters.Locations)
	inClause(&clauses, &args, "hash", filters.Hashes)

	query := "SELECT " + artifactColumns + " FROM artifacts WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, page*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*secondary.ArtifactRecord
	for rows.Next() {
		record, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, record)
	}

	return artifacts, rows.Err()
}

// Delete removes an artifact from persistence.
func (r *ArtifactRepository) Delete(ctx context.Context, tenant, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM artifacts WHERE tenant = ? AND id = ?",
		tenant, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("artifact %s not found", id)
	}

	return nil
}

func scanArtifact(row rowScanner) (*secondary.ArtifactRecord, error) {
	var (
		record    secondary.ArtifactRecord
		createdAt time.Time
	)
	err := row.Scan(
		&record.Tenant, &record.ID, &record.RunID, &record.Type,
		&record.Location, &record.Name, &record.Qualifier, &record.Hash,
		&record.IsInput, &record.IsOutput, &record.Metadata, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return &record, nil
}

// Ensure ArtifactRepository implements the interface.
var _ secondary.ArtifactRepository = (*ArtifactRepository)(nil)
