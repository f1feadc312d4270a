package app

import (
	"context"
	"fmt"

	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/ports/secondary"
)

// ArtifactServiceImpl implements the ArtifactService interface.
type ArtifactServiceImpl struct {
	artifactRepo secondary.ArtifactRepository
	runRepo      secondary.RunRepository
}

// NewArtifactService creates a new ArtifactService with injected dependencies.
func NewArtifactService(artifactRepo secondary.ArtifactRepository, runRepo secondary.RunRepository) *ArtifactServiceImpl {
	return &ArtifactServiceImpl{
		artifactRepo: artifactRepo,
		runRepo:      runRepo,
	}
}

// CreateArtifact records a new artifact for an existing run.
func (s *ArtifactServiceImpl) CreateArtifact(ctx context.Context, req primary.CreateArtifactRequest) (*primary.Artifact, error) {
	run, err := s.runRepo.GetByID(ctx, req.Tenant, req.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", req.RunID)
	}

	record := &secondary.ArtifactRecord{
		Tenant:    req.Tenant,
		RunID:     req.RunID,
		Type:      req.Type,
		Location:  req.Location,
		Name:      req.Name,
		Qualifier: req.Qualifier,
		Hash:      req.Hash,
		IsInput:   req.IsInput,
		IsOutput:  req.IsOutput,
		Metadata:  req.Metadata,
	}

	if err := s.artifactRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}

	created, err := s.artifactRepo.GetByID(ctx, req.Tenant, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created artifact: %w", err)
	}

	return recordToArtifact(created), nil
}

// GetArtifact retrieves an artifact by ID.
func (s *ArtifactServiceImpl) GetArtifact(ctx context.Context, tenant, artifactID string) (*primary.Artifact, error) {
	record, err := s.artifactRepo.GetByID(ctx, tenant, artifactID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("artifact %s not found", artifactID)
	}
	return recordToArtifact(record), nil
}

// ListArtifacts retrieves a page of artifacts.
func (s *ArtifactServiceImpl) ListArtifacts(ctx context.Context, tenant string, req primary.ListArtifactsRequest) ([]*primary.Artifact, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filters := secondary.ArtifactFilters{}
	if req.RunID != "" {
		filters.RunIDs = []string{req.RunID}
	}
	if req.Type != "" {
		filters.Types = []string{req.Type}
	}
	if req.Name != "" {
		filters.Names = []string{req.Name}
	}
	if req.Hash != "" {
		filters.Hashes = []string{req.Hash}
	}

	records, err := s.artifactRepo.List(ctx, tenant, filters, zeroBasedPage(req.Page), pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	artifacts := make([]*primary.Artifact, len(records))
	for i, r := range records {
		artifacts[i] = recordToArtifact(r)
	}
	return artifacts, nil
}

// DeleteArtifact deletes an artifact.
func (s *ArtifactServiceImpl) DeleteArtifact(ctx context.Context, tenant, artifactID string) error {
	return s.artifactRepo.Delete(ctx, tenant, artifactID)
}

// Helper methods

func recordToArtifact(r *secondary.ArtifactRecord) *primary.Artifact {
	return &primary.Artifact{
		Tenant:    r.Tenant,
		ID:        r.ID,
		RunID:     r.RunID,
		Type:      r.Type,
		Location:  r.Location,
		Name:      r.Name,
		Qualifier: r.Qualifier,
		Hash:      r.Hash,
		IsInput:   r.IsInput,
		IsOutput:  r.IsOutput,
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure ArtifactServiceImpl implements the interface.
var _ primary.ArtifactService = (*ArtifactServiceImpl)(nil)
