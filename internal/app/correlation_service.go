package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/example/buildgraph/internal/config"
	"github.com/example/buildgraph/internal/core/correlation"
	"github.com/example/buildgraph/internal/ctxutil"
	"github.com/example/buildgraph/internal/ports/primary"
	"github.com/example/buildgraph/internal/ports/secondary"
)

// CorrelationServiceImpl implements the CorrelationService interface.
//
// Both paths funnel through the mapping store's BulkReplace primitive, and
// both consolidate entries per run before any replace is applied. Pages are
// processed strictly in sequence; the unique (tenant, run1, run2) constraint
// is the only concurrency guard, so concurrent invocations converge by
// last-writer-wins per run rather than serializing.
type CorrelationServiceImpl struct {
	runRepo      secondary.RunRepository
	artifactRepo secondary.ArtifactRepository
	mappingRepo  secondary.MappingRepository
	settings     *config.Settings
	log          zerolog.Logger
}

// NewCorrelationService creates a new CorrelationService with injected
// dependencies. Settings are read once here and treated as immutable for
// every correlation this service runs.
func NewCorrelationService(
	runRepo secondary.RunRepository,
	artifactRepo secondary.ArtifactRepository,
	mappingRepo secondary.MappingRepository,
	settings *config.Settings,
	log zerolog.Logger,
) *CorrelationServiceImpl {
	return &CorrelationServiceImpl{
		runRepo:      runRepo,
		artifactRepo: artifactRepo,
		mappingRepo:  mappingRepo,
		settings:     settings,
		log:          log,
	}
}

// CorrelateTenant runs full batch correlation for a tenant. It returns the
// number of (run1, run2) pairs processed. On a store failure the invocation
// aborts; already-applied pages stay applied and are included in the count.
//
// Runs that produce no group output keep whatever edges they had: disabling
// rules does not clear previously inferred edges. The next batch with the
// rules re-enabled converges them again.
func (s *CorrelationServiceImpl) CorrelateTenant(ctx context.Context, tenant string) (int, error) {
	logger := s.logger(ctx, tenant)

	rules := s.settings.ActiveRules(tenant)
	if len(rules) == 0 {
		logger.Warn().Msg("no correlation rules active for tenant, skipping")
		return 0, nil
	}

	grouper, err := s.buildGroups(ctx, tenant, rules)
	if err != nil {
		return 0, err
	}

	// Consolidate globally before paginating: every run appears in exactly
	// one entry, so each page's replace is self-contained and no later page
	// can undo an earlier page's work for the same run.
	entries := grouper.Entries()
	pageSize := s.settings.PageSize()

	processed := 0
	for start := 0; start < len(entries); start += pageSize {
		end := start + pageSize
		if end > len(entries) {
			end = len(entries)
		}
		page := entries[start:end]

		if err := s.mappingRepo.BulkReplace(ctx, tenant, toMappingEntries(page)); err != nil {
			return processed, fmt.Errorf("failed to replace mappings after %d pairs: %w", processed, err)
		}
		processed += correlation.PairCount(page)

		logger.Debug().
			Int("page", start/pageSize).
			Int("entries", len(page)).
			Int("pairs", processed).
			Msg("applied correlation page")
	}

	logger.Info().
		Int("rules", len(rules)).
		Int("runs", len(entries)).
		Int("pairs", processed).
		Msg("batch correlation complete")

	return processed, nil
}

// MapRun incrementally correlates a single run right after its artifact set
// becomes known. Fire-and-forget: failures are logged and swallowed so the
// run's own persistence is never blocked; a missed correlation self-heals
// on the next batch.
func (s *CorrelationServiceImpl) MapRun(ctx context.Context, tenant, runID string, artifactIDs []string) {
	if err := s.mapRun(ctx, tenant, runID, artifactIDs); err != nil {
		logger := s.logger(ctx, tenant)
		logger.Error().
			Err(err).
			Str("run", runID).
			Msg("run correlation failed")
	}
}

func (s *CorrelationServiceImpl) mapRun(ctx context.Context, tenant, runID string, artifactIDs []string) error {
	if len(artifactIDs) == 0 {
		return nil
	}

	rules := s.settings.ActiveRules(tenant)
	if len(rules) == 0 {
		return nil
	}

	// Load the named artifacts; unknown ids are silently dropped by the filter.
	artifacts, err := s.listAllArtifacts(ctx, tenant, secondary.ArtifactFilters{IDs: artifactIDs})
	if err != nil {
		return fmt.Errorf("failed to load artifacts for run %s: %w", runID, err)
	}

	identityActive := false
	seenPeers := make(map[string]struct{})
	relatedSet := make(map[string]struct{})

	for _, name := range rules {
		if name == correlation.RuleIdentity {
			identityActive = true
			continue
		}
		rule, ok := correlation.RuleByName(name)
		if !ok {
			continue
		}

		for _, record := range artifacts {
			a := artifactFromRecord(record)
			if !rule.Applies(a) {
				continue
			}

			peers, err := s.listAllArtifacts(ctx, tenant, peerFilters(rule.PeerFilter(a)))
			if err != nil {
				return fmt.Errorf("failed to find peers for artifact %s: %w", a.ID, err)
			}

			for _, peer := range peers {
				// The same physical peer may match several rules; count it once.
				if _, dup := seenPeers[peer.ID]; dup {
					continue
				}
				seenPeers[peer.ID] = struct{}{}
				if peer.RunID != runID {
					relatedSet[peer.RunID] = struct{}{}
				}
			}
		}
	}

	related := sortedKeys(relatedSet)

	var entries []secondary.MappingEntry
	if len(related) > 0 {
		entries = append(entries, secondary.MappingEntry{Run1: runID, Run2s: related})
	}
	if identityActive {
		entries = append(entries, secondary.MappingEntry{Run1: runID, Run2s: []string{runID}})
	}
	for _, r := range related {
		entries = append(entries, secondary.MappingEntry{Run1: r, Run2s: []string{runID}})
	}

	if len(entries) == 0 {
		return nil
	}

	// One replace call for the whole entry list: the primitive consolidates
	// the duplicate entries for runID before applying, so the identity
	// self-edge and the related set union instead of overwriting each other.
	if err := s.mappingRepo.BulkReplace(ctx, tenant, entries); err != nil {
		return fmt.Errorf("failed to replace mappings for run %s: %w", runID, err)
	}

	logger := s.logger(ctx, tenant)
	logger.Debug().
		Str("run", runID).
		Int("related", len(related)).
		Msg("incremental correlation applied")

	return nil
}

// buildGroups streams grouping input for every active rule into a Grouper.
// Identity scans the run registry; artifact rules stream container
// artifacts page by page.
func (s *CorrelationServiceImpl) buildGroups(ctx context.Context, tenant string, rules []correlation.RuleName) (*correlation.Grouper, error) {
	grouper := correlation.NewGrouper()
	pageSize := s.settings.PageSize()

	for _, name := range rules {
		if name == correlation.RuleIdentity {
			for page := 0; ; page++ {
				ids, err := s.runRepo.ListIDs(ctx, tenant, page, pageSize)
				if err != nil {
					return nil, fmt.Errorf("failed to list runs: %w", err)
				}
				for _, id := range ids {
					grouper.AddSelf(id)
				}
				if len(ids) < pageSize {
					break
				}
			}
			continue
		}

		rule, ok := correlation.RuleByName(name)
		if !ok {
			continue
		}

		filters := secondary.ArtifactFilters{Types: []string{correlation.ArtifactTypeContainer}}
		for page := 0; ; page++ {
			records, err := s.artifactRepo.List(ctx, tenant, filters, page, pageSize)
			if err != nil {
				return nil, fmt.Errorf("failed to list artifacts: %w", err)
			}
			for _, record := range records {
				a := artifactFromRecord(record)
				if rule.Applies(a) {
					grouper.Add(rule, a)
				}
			}
			if len(records) < pageSize {
				break
			}
		}
	}

	return grouper, nil
}

// listAllArtifacts drains every page of an artifact filter.
func (s *CorrelationServiceImpl) listAllArtifacts(ctx context.Context, tenant string, filters secondary.ArtifactFilters) ([]*secondary.ArtifactRecord, error) {
	pageSize := s.settings.PageSize()
	var all []*secondary.ArtifactRecord
	for page := 0; ; page++ {
		records, err := s.artifactRepo.List(ctx, tenant, filters, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		if len(records) < pageSize {
			return all, nil
		}
	}
}

func (s *CorrelationServiceImpl) logger(ctx context.Context, tenant string) zerolog.Logger {
	logger := s.log.With().Str("tenant", tenant).Logger()
	if actor := ctxutil.ActorFromContext(ctx); actor != "" {
		logger = logger.With().Str("actor", actor).Logger()
	}
	return logger
}

// Helper functions

func artifactFromRecord(r *secondary.ArtifactRecord) correlation.Artifact {
	return correlation.Artifact{
		ID:        r.ID,
		RunID:     r.RunID,
		Type:      r.Type,
		Location:  r.Location,
		Name:      r.Name,
		Qualifier: r.Qualifier,
		Hash:      r.Hash,
	}
}

func peerFilters(pf correlation.PeerFilter) secondary.ArtifactFilters {
	return secondary.ArtifactFilters{
		ExcludeIDs: pf.ExcludeIDs,
		Types:      pf.Types,
		Names:      pf.Names,
		Qualifiers: pf.Qualifiers,
		Locations:  pf.Locations,
		Hashes:     pf.Hashes,
	}
}

func toMappingEntries(entries []correlation.Entry) []secondary.MappingEntry {
	out := make([]secondary.MappingEntry, len(entries))
	for i, e := range entries {
		out[i] = secondary.MappingEntry{Run1: e.RunID, Run2s: e.Peers}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ensure CorrelationServiceImpl implements the interface.
var _ primary.CorrelationService = (*CorrelationServiceImpl)(nil)
