package app

import (
	"context"
	"fmt"

	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/ports/secondary"
)

// RunServiceImpl implements the RunService interface.
type RunServiceImpl struct {
	runRepo      secondary.RunRepository
	artifactRepo secondary.ArtifactRepository
	correlation  primary.CorrelationService
}

// NewRunService creates a new RunService with injected dependencies.
func NewRunService(
	runRepo secondary.RunRepository,
	artifactRepo secondary.ArtifactRepository,
	correlation primary.CorrelationService,
) *RunServiceImpl {
	return &RunServiceImpl{
		runRepo:      runRepo,
		artifactRepo: artifactRepo,
		correlation:  correlation,
	}
}

// CreateRun records a new run.
func (s *RunServiceImpl) CreateRun(ctx context.Context, req primary.CreateRunRequest) (*primary.Run, error) {
	record := &secondary.RunRecord{
		Tenant: req.Tenant,
		ID:     req.ID,
		Job:    req.Job,
		Status: req.Status,
	}

	if err := s.runRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	created, err := s.runRepo.GetByID(ctx, req.Tenant, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created run: %w", err)
	}

	return recordToRun(created), nil
}

// IngestRun records a run together with its artifacts and then triggers
// incremental correlation. Correlation is fire-and-forget: its failures
// never surface here, so the primary write path stays available even when
// the relationship graph lags behind.
func (s *RunServiceImpl) IngestRun(ctx context.Context, req primary.IngestRunRequest) (*primary.IngestRunResponse, error) {
	run, err := s.CreateRun(ctx, req.Run)
	if err != nil {
		return nil, err
	}

	artifactIDs := make([]string, 0, len(req.Artifacts))
	for _, a := range req.Artifacts {
		record := &secondary.ArtifactRecord{
			Tenant:    req.Run.Tenant,
			RunID:     run.ID,
			Type:      a.Type,
			Location:  a.Location,
			Name:      a.Name,
			Qualifier: a.Qualifier,
			Hash:      a.Hash,
			IsInput:   a.IsInput,
			IsOutput:  a.IsOutput,
			Metadata:  a.Metadata,
		}
		if err := s.artifactRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create artifact for run %s: %w", run.ID, err)
		}
		artifactIDs = append(artifactIDs, record.ID)
	}

	s.correlation.MapRun(ctx, req.Run.Tenant, run.ID, artifactIDs)

	return &primary.IngestRunResponse{Run: run, ArtifactIDs: artifactIDs}, nil
}

// GetRun retrieves a run by ID.
func (s *RunServiceImpl) GetRun(ctx context.Context, tenant, runID string) (*primary.Run, error) {
	record, err := s.runRepo.GetByID(ctx, tenant, runID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return recordToRun(record), nil
}

// ListRuns retrieves a page of runs.
func (s *RunServiceImpl) ListRuns(ctx context.Context, tenant string, req primary.ListRunsRequest) ([]*primary.Run, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	records, err := s.runRepo.List(ctx, tenant, secondary.RunFilters{
		Job:    req.Job,
		Status: req.Status,
	}, zeroBasedPage(req.Page), pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = recordToRun(r)
	}
	return runs, nil
}

// DeleteRun deletes a run. Artifacts and mappings go with it in cascade.
func (s *RunServiceImpl) DeleteRun(ctx context.Context, tenant, runID string) error {
	return s.runRepo.Delete(ctx, tenant, runID)
}

// Helper methods

// zeroBasedPage converts the 1-based page number used at the service
// boundary to the 0-based page the repositories compute offsets from.
// Page 0 and page 1 both mean the first page.
func zeroBasedPage(page int) int {
	if page > 0 {
		return page - 1
	}
	return 0
}

func recordToRun(r *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		Tenant:    r.Tenant,
		ID:        r.ID,
		Job:       r.Job,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Ensure RunServiceImpl implements the interface.
var _ primary.RunService = (*RunServiceImpl)(nil)
