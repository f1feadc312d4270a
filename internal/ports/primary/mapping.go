package primary

import "context"

// MappingService defines the primary port for relationship-graph management
// tooling. Edges are produced by correlation; this service only inspects
// and prunes them.
type MappingService interface {
	// GetMapping retrieves a mapping by row ID. Returns (nil, nil) when absent.
	GetMapping(ctx context.Context, tenant, mappingID string) (*Mapping, error)

	// GetMappingByRuns retrieves the mapping for a directed (run1, run2)
	// pair. Returns (nil, nil) when absent.
	GetMappingByRuns(ctx context.Context, tenant, run1, run2 string) (*Mapping, error)

	// ListMappings retrieves a page of mappings.
	ListMappings(ctx context.Context, tenant string, req ListMappingsRequest) ([]*Mapping, error)

	// DeleteMapping deletes a single mapping by row ID.
	DeleteMapping(ctx context.Context, tenant, mappingID string) error

	// DeleteMappingsByRun1 removes every outgoing edge of the given runs.
	DeleteMappingsByRun1(ctx context.Context, tenant string, run1s []string) error
}

// ListMappingsRequest contains filter and pagination options for listing mappings.
// Page is 1-based; 0 and 1 both mean the first page.
type ListMappingsRequest struct {
	Run1In   []string
	Run2In   []string
	Page     int
	PageSize int
}

// Mapping represents one directed relatedness edge at the port boundary.
type Mapping struct {
	Tenant    string
	ID        string
	Run1      string
	Run2      string
	CreatedAt string
}
