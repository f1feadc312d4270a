package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/buildgraph/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create persists a new run.
func (r *RunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	status := run.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (tenant, id, job, status) VALUES (?, ?, ?, ?)",
		run.Tenant, run.ID, run.Job, status,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its ID. Returns (nil, nil) when absent.
func (r *RunRepository) GetByID(ctx context.Context, tenant, id string) (*secondary.RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT tenant, id, job, status, created_at, updated_at FROM runs WHERE tenant = ? AND id = ?",
		tenant, id,
	)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return record, nil
}

// List retrieves runs matching the given filters, one page at a time.
func (r *RunRepository) List(ctx context.Context, tenant string, filters secondary.RunFilters, page, pageSize int) ([]*secondary.RunRecord, error) {
	clauses := []string{"tenant = ?"}
	args := []any{tenant}

	inClause(&clauses, &args, "id", filters.IDs)
	if filters.Job != "" {
		clauses = append(clauses, "job = ?")
		args = append(args, filters.Job)
	}
	if filters.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filters.Status)
	}

	query := "SELECT tenant, id, job, status, created_at, updated_at FROM runs WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, page*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// ListIDs retrieves all run IDs for a tenant, one page at a time, ordered by ID.
func (r *RunRepository) ListIDs(ctx context.Context, tenant string, page, pageSize int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM runs WHERE tenant = ? ORDER BY id ASC LIMIT ? OFFSET ?",
		tenant, pageSize, page*pageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Delete removes a run. Artifacts and mappings cascade via foreign keys.
func (r *RunRepository) Delete(ctx context.Context, tenant, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM runs WHERE tenant = ? AND id = ?",
		tenant, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("run %s not found", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*secondary.RunRecord, error) {
	var (
		record    secondary.RunRecord
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&record.Tenant, &record.ID, &record.Job, &record.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &record, nil
}

// Ensure RunRepository implements the interface.
var _ secondary.RunRepository = (*RunRepository)(nil)
