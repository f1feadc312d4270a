package primary

import "context"

// RunService defines the primary port for job-run operations.
type RunService interface {
	// CreateRun records a new run.
	CreateRun(ctx context.Context, req CreateRunRequest) (*Run, error)

	// IngestRun records a run together with its artifacts and triggers
	// incremental correlation for it. Correlation failures never fail
	// the ingestion.
	IngestRun(ctx context.Context, req IngestRunRequest) (*IngestRunResponse, error)

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, tenant, runID string) (*Run, error)

	// ListRuns retrieves a page of runs.
	ListRuns(ctx context.Context, tenant string, req ListRunsRequest) ([]*Run, error)

	// DeleteRun deletes a run and, in cascade, its artifacts and mappings.
	DeleteRun(ctx context.Context, tenant, runID string) error
}

// CreateRunRequest contains parameters for creating a run.
type CreateRunRequest struct {
	Tenant string
	ID     string
	Job    string
	Status string
}

// IngestRunRequest contains a run and its artifacts, as delivered by the
// CI/CD ingestion pipeline.
type IngestRunRequest struct {
	Run       CreateRunRequest
	Artifacts []CreateArtifactRequest
}

// IngestRunResponse contains the result of ingesting a run.
type IngestRunResponse struct {
	Run         *Run
	ArtifactIDs []string
}

// ListRunsRequest contains filter and pagination options for listing runs.
// Page is 1-based; 0 and 1 both mean the first page.
type ListRunsRequest struct {
	Job      string
	Status   string
	Page     int
	PageSize int
}

// Run represents a job run at the port boundary.
type Run struct {
	Tenant    string
	ID        string
	Job       string
	Status    string
	CreatedAt string
	UpdatedAt string
}
