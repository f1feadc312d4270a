package app

import (
	"context"
	"fmt"

	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/ports/secondary"
)

// MappingServiceImpl implements the MappingService interface.
type MappingServiceImpl struct {
	mappingRepo secondary.MappingRepository
}

// NewMappingService creates a new MappingService with injected dependencies.
func NewMappingService(mappingRepo secondary.MappingRepository) *MappingServiceImpl {
	return &MappingServiceImpl{mappingRepo: mappingRepo}
}

// GetMapping retrieves a mapping by row ID.
func (s *MappingServiceImpl) GetMapping(ctx context.Context, tenant, mappingID string) (*primary.Mapping, error) {
	record, err := s.mappingRepo.GetByID(ctx, tenant, mappingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToMapping(record), nil
}

// GetMappingByRuns retrieves the mapping for a directed (run1, run2) pair.
func (s *MappingServiceImpl) GetMappingByRuns(ctx context.Context, tenant, run1, run2 string) (*primary.Mapping, error) {
	record, err := s.mappingRepo.GetByRuns(ctx, tenant, run1, run2)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToMapping(record), nil
}

// ListMappings retrieves a page of mappings.
func (s *MappingServiceImpl) ListMappings(ctx context.Context, tenant string, req primary.ListMappingsRequest) ([]*primary.Mapping, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	records, err := s.mappingRepo.List(ctx, tenant, secondary.MappingFilters{
		Run1In: req.Run1In,
		Run2In: req.Run2In,
	}, zeroBasedPage(req.Page), pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}

	mappings := make([]*primary.Mapping, len(records))
	for i, r := range records {
		mappings[i] = recordToMapping(r)
	}
	return mappings, nil
}

// DeleteMapping deletes a single mapping by row ID.
func (s *MappingServiceImpl) DeleteMapping(ctx context.Context, tenant, mappingID string) error {
	return s.mappingRepo.Delete(ctx, tenant, mappingID)
}

// DeleteMappingsByRun1 removes every outgoing edge of the given runs.
func (s *MappingServiceImpl) DeleteMappingsByRun1(ctx context.Context, tenant string, run1s []string) error {
	return s.mappingRepo.DeleteByRun1(ctx, tenant, run1s)
}

// Helper methods

func recordToMapping(r *secondary.MappingRecord) *primary.Mapping {
	return &primary.Mapping{
		Tenant:    r.Tenant,
		ID:        r.ID,
		Run1:      r.Run1,
		Run2:      r.Run2,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure MappingServiceImpl implements the interface.
var _ primary.MappingService = (*MappingServiceImpl)(nil)
