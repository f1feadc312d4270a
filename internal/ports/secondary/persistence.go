// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
//
// Every method is tenant-scoped: the tenant is an explicit argument, never
// ambient state. Records use empty strings, not NULLs, for absent artifact
// attributes so uniqueness constraints stay well-defined.
package secondary

import "context"

// RunRepository defines the secondary port for job-run persistence.
type RunRepository interface {
	// Create persists a new run.
	Create(ctx context.Context, run *RunRecord) error

	// GetByID retrieves a run by its ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, tenant, id string) (*RunRecord, error)

	// List retrieves runs matching the given filters, one page at a time.
	// Pages are indexed from zero; a short page ends the stream.
	List(ctx context.Context, tenant string, filters RunFilters, page, pageSize int) ([]*RunRecord, error)

	// ListIDs retrieves all run IDs for a tenant, one page at a time,
	// ordered by ID. Used by identity correlation's full scan.
	ListIDs(ctx context.Context, tenant string, page, pageSize int) ([]string, error)

	// Delete removes a run. Artifacts and mappings referencing the run
	// are removed in cascade by the store.
	Delete(ctx context.Context, tenant, id string) error
}

// RunRecord represents a job run as stored in persistence.
type RunRecord struct {
	Tenant    string
	ID        string
	Job       string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// RunFilters contains filter options for querying runs.
type RunFilters struct {
	IDs    []string
	Job    string
	Status string
}

// ArtifactRepository defines the secondary port for artifact persistence.
type ArtifactRepository interface {
	// Create persists a new artifact. Violating the per-run uniqueness
	// constraint (run, type, location, name, qualifier, hash) is an error.
	Create(ctx context.Context, artifact *ArtifactRecord) error

	// GetByID retrieves an artifact by its ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, tenant, id string) (*ArtifactRecord, error)

	// List retrieves artifacts matching the given filters, one page at a
	// time, ordered by ID. Every non-empty filter list narrows the result;
	// IDs that match nothing are silently absent from the output.
	List(ctx context.Context, tenant string, filters ArtifactFilters, page, pageSize int) ([]*ArtifactRecord, error)

	// Delete removes an artifact from persistence.
	Delete(ctx context.Context, tenant, id string) error
}

// ArtifactRecord represents an artifact as stored in persistence.
type ArtifactRecord struct {
	Tenant    string
	ID        string
	RunID     string
	Type      string
	Location  string
	Name      string
	Qualifier string
	Hash      string
	IsInput   bool
	IsOutput  bool
	Metadata  string
	CreatedAt string
}

// ArtifactFilters contains filter options for querying artifacts.
// Empty slices mean "no restriction on this attribute".
type ArtifactFilters struct {
	IDs        []string
	ExcludeIDs []string
	RunIDs     []string
	Types      []string
	Names      []string
	Qualifiers []string
	Locations  []string
	Hashes     []string
}

// MappingRepository defines the secondary port for the run relationship graph.
type MappingRepository interface {
	// GetByID retrieves a mapping by its row ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, tenant, id string) (*MappingRecord, error)

	// GetByRuns retrieves the mapping for a directed (run1, run2) pair.
	// Returns (nil, nil) when absent.
	GetByRuns(ctx context.Context, tenant, run1, run2 string) (*MappingRecord, error)

	// BulkReplace makes the stored outgoing edge set of every run1 named in
	// entries exactly equal to that entry's peer set: missing pairs are
	// inserted (an existing pair is a no-op, not an error), extraneous
	// pairs are deleted. Entries naming the same run1 more than once are
	// consolidated by set union before anything is applied; callers never
	// lose edges to a later duplicate entry. Runs not named in entries are
	// untouched.
	BulkReplace(ctx context.Context, tenant string, entries []MappingEntry) error

	// List retrieves mappings matching the given filters, one page at a
	// time, ordered by (run1, run2).
	List(ctx context.Context, tenant string, filters MappingFilters, page, pageSize int) ([]*MappingRecord, error)

	// DeleteByRun1 removes every outgoing edge of the given runs.
	DeleteByRun1(ctx context.Context, tenant string, run1s []string) error

	// Delete removes a single mapping by row ID.
	Delete(ctx context.Context, tenant, id string) error
}

// MappingRecord represents one directed relatedness edge run1 -> run2.
type MappingRecord struct {
	Tenant    string
	ID        string
	Run1      string
	Run2      string
	CreatedAt string
}

// MappingEntry is the input unit of BulkReplace: run1 and its full peer set.
type MappingEntry struct {
	Run1  string
	Run2s []string
}

// MappingFilters contains filter options for querying mappings.
type MappingFilters struct {
	Run1In []string
	Run2In []string
}
