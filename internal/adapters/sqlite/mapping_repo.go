package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/buildgraph/internal/ports/secondary"
)

// MappingRepository implements secondary.MappingRepository with SQLite.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a new SQLite mapping repository.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// GetByID retrieves a mapping by its row ID. Returns (nil, nil) when absent.
func (r *MappingRepository) GetByID(ctx context.Context, tenant, id string) (*secondary.MappingRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT tenant, id, run1, run2, created_at FROM run_mappings WHERE tenant = ? AND id = ?",
		tenant, id,
	)

	record, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	return record, nil
}

// GetByRuns retrieves the mapping for a directed (run1, run2) pair.
// Returns (nil, nil) when absent.
func (r *MappingRepository) GetByRuns(ctx context.Context, tenant, run1, run2 string) (*secondary.MappingRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT tenant, id, run1, run2, created_at FROM run_mappings WHERE tenant = ? AND run1 = ? AND run2 = ?",
		tenant, run1, run2,
	)

	record, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	return record, nil
}

// BulkReplace makes each named run1's stored outgoing edge set exactly
// equal to its consolidated peer set. Duplicate run1 entries are unioned
// first: applying them one by one would let the last entry win and
// destructively narrow a run's fan-out to its final singleton. The whole
// call runs in one transaction, so a page is applied completely or not at
// all.
func (r *MappingRepository) BulkReplace(ctx context.Context, tenant string, entries []secondary.MappingEntry) error {
	consolidated := consolidateEntries(entries)
	if len(consolidated) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO run_mappings (tenant, id, run1, run2) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare mapping insert: %w", err)
	}
	defer insert.Close()

	for _, entry := range consolidated {
		// Insert missing pairs; an existing pair is a no-op, not an error.
		for _, run2 := range entry.Run2s {
			if _, err := insert.ExecContext(ctx, tenant, uuid.NewString(), entry.Run1, run2); err != nil {
				return fmt.Errorf("failed to insert mapping %s -> %s: %w", entry.Run1, run2, err)
			}
		}

		// Delete extraneous pairs so run1's outgoing set converges to
		// exactly the supplied one.
		clauses := []string{"tenant = ?", "run1 = ?"}
		args := []any{tenant, entry.Run1}
		notInClause(&clauses, &args, "run2", entry.Run2s)

		query := "DELETE FROM run_mappings WHERE " + strings.Join(clauses, " AND ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to prune mappings for %s: %w", entry.Run1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mapping replace: %w", err)
	}

	return nil
}

// List retrieves mappings matching the given filters, one page at a time,
// ordered by (run1, run2).
func (r *MappingRepository) List(ctx context.Context, tenant string, filters secondary.MappingFilters, page, pageSize int) ([]*secondary.MappingRecord, error) {
	clauses := []string{"tenant = ?"}
	args := []any{tenant}

	inClause(&clauses, &args, "run1", filters.Run1In)
	inClause(&clauses, &args, "run2", filters.Run2In)

	query := "SELECT tenant, id, run1, run2, created_at FROM run_mappings WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY run1 ASC, run2 ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, page*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*secondary.MappingRecord
	for rows.Next() {
		record, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, record)
	}

	return mappings, rows.Err()
}

// DeleteByRun1 removes every outgoing edge of the given runs.
func (r *MappingRepository) DeleteByRun1(ctx context.Context, tenant string, run1s []string) error {
	if len(run1s) == 0 {
		return nil
	}

	clauses := []string{"tenant = ?"}
	args := []any{tenant}
	inClause(&clauses, &args, "run1", run1s)

	query := "DELETE FROM run_mappings WHERE " + strings.Join(clauses, " AND ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete mappings by run1: %w", err)
	}

	return nil
}

// Delete removes a single mapping by row ID.
func (r *MappingRepository) Delete(ctx context.Context, tenant, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM run_mappings WHERE tenant = ? AND id = ?",
		tenant, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("mapping %s not found", id)
	}

	return nil
}

// consolidateEntries unions entries naming the same run1 into one entry
// with a sorted, deduplicated peer set. Output is sorted by run1.
func consolidateEntries(entries []secondary.MappingEntry) []secondary.MappingEntry {
	sets := make(map[string]map[string]struct{})
	for _, entry := range entries {
		set, ok := sets[entry.Run1]
		if !ok {
			set = make(map[string]struct{})
			sets[entry.Run1] = set
		}
		for _, run2 := range entry.Run2s {
			set[run2] = struct{}{}
		}
	}

	out := make([]secondary.MappingEntry, 0, len(sets))
	for run1, set := range sets {
		run2s := make([]string, 0, len(set))
		for run2 := range set {
			run2s = append(run2s, run2)
		}
		sort.Strings(run2s)
		out = append(out, secondary.MappingEntry{Run1: run1, Run2s: run2s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Run1 < out[j].Run1 })

	return out
}

func scanMapping(row rowScanner) (*secondary.MappingRecord, error) {
	var (
		record    secondary.MappingRecord
		createdAt time.Time
	)
	err := row.Scan(&record.Tenant, &record.ID, &record.Run1, &record.Run2, &createdAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return &record, nil
}

// Ensure MappingRepository implements the interface.
var _ secondary.MappingRepository = (*MappingRepository)(nil)
