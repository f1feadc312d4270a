package primary

import "context"

// CorrelationService defines the primary port for run-artifact correlation.
// These are the two trigger points the rest of the system calls.
type CorrelationService interface {
	// CorrelateTenant runs full batch correlation for a tenant: it makes
	// the stored relationship graph consistent with the current artifact
	// contents for every run the enabled rule set can reach. Returns the
	// number of (run1, run2) pairs processed. A store failure aborts the
	// invocation; pages already applied stay applied, and the returned
	// count covers them.
	CorrelateTenant(ctx context.Context, tenant string) (int, error)

	// MapRun incrementally correlates a single run right after its
	// artifact set becomes known. Fire-and-forget: failures are logged
	// and swallowed so the run's own persistence is never blocked. A
	// missed correlation self-heals on the next CorrelateTenant.
	MapRun(ctx context.Context, tenant, runID string, artifactIDs []string)
}
