package app_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/example/buildgraph/internal/adapters/sqlite"
	"github.com/example/buildgraph/internal/app"
	"github.com/example/buildgraph/internal/config"
	"github.com/example/buildgraph/internal/db"
	"github.com/example/buildgraph/internal/ports/secondary"
)

// testEnv wires a correlation service onto real SQLite repositories with an
// in-memory database, the same way wire does in production.
type testEnv struct {
	db           *sql.DB
	runRepo      *sqlite.RunRepository
	artifactRepo *sqlite.ArtifactRepository
	mappingRepo  *sqlite.MappingRepository
	correlation  *app.CorrelationServiceImpl
}

func setupEnv(t *testing.T, settings *config.Settings) *testEnv {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	env := &testEnv{
		db:           testDB,
		runRepo:      sqlite.NewRunRepository(testDB),
		artifactRepo: sqlite.NewArtifactRepository(testDB),
		mappingRepo:  sqlite.NewMappingRepository(testDB),
	}
	env.correlation = app.NewCorrelationService(
		env.runRepo, env.artifactRepo, env.mappingRepo, settings, zerolog.Nop(),
	)
	return env
}

// settingsWith enables exactly the given rules by default.
func settingsWith(rules ...string) *config.Settings {
	s := &config.Settings{Rules: map[string]config.RuleSetting{}}
	for _, r := range rules {
		s.Rules[r] = config.RuleSetting{EnabledByDefault: true}
	}
	return s
}

// addRun inserts a run directly through the repository.
func (e *testEnv) addRun(t *testing.T, tenant, id string) {
	t.Helper()
	err := e.runRepo.Create(context.Background(), &secondary.RunRecord{
		Tenant: tenant, ID: id, Job: "build", Status: "succeeded",
	})
	if err != nil {
		t.Fatalf("failed to add run %s: %v", id, err)
	}
}

// addContainer inserts a container artifact and returns its ID.
func (e *testEnv) addContainer(t *testing.T, tenant, runID, name, qualifier, location, hash string) string {
	t.Helper()
	record := &secondary.ArtifactRecord{
		Tenant: tenant, RunID: runID, Type: "container",
		Name: name, Qualifier: qualifier, Location: location, Hash: hash,
		IsOutput: true,
	}
	if err := e.artifactRepo.Create(context.Background(), record); err != nil {
		t.Fatalf("failed to add artifact for %s: %v", runID, err)
	}
	return record.ID
}

// edges returns all (run1, run2) pairs for a tenant as sorted "run1>run2" strings.
func (e *testEnv) edges(t *testing.T, tenant string) []string {
	t.Helper()
	rows, err := e.db.Query("SELECT run1, run2 FROM run_mappings WHERE tenant = ?", tenant)
	if err != nil {
		t.Fatalf("failed to query edges: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var run1, run2 string
		if err := rows.Scan(&run1, &run2); err != nil {
			t.Fatalf("failed to scan edge: %v", err)
		}
		out = append(out, run1+">"+run2)
	}
	sort.Strings(out)
	return out
}

func assertEdges(t *testing.T, got []string, want ...string) {
	t.Helper()
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("expected edges %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected edges %v, got %v", want, got)
		}
	}
}

// failingMappingRepo implements secondary.MappingRepository and fails every
// write, for exercising the fire-and-forget error contract.
type failingMappingRepo struct{}

func (failingMappingRepo) GetByID(ctx context.Context, tenant, id string) (*secondary.MappingRecord, error) {
	return nil, nil
}

func (failingMappingRepo) GetByRuns(ctx context.Context, tenant, run1, run2 string) (*secondary.MappingRecord, error) {
	return nil, nil
}

func (failingMappingRepo) BulkReplace(ctx context.Context, tenant string, entries []secondary.MappingEntry) error {
	return errors.New("store unavailable")
}

func (failingMappingRepo) List(ctx context.Context, tenant string, filters secondary.MappingFilters, page, pageSize int) ([]*secondary.MappingRecord, error) {
	return nil, nil
}

func (failingMappingRepo) DeleteByRun1(ctx context.Context, tenant string, run1s []string) error {
	return errors.New("store unavailable")
}

func (failingMappingRepo) Delete(ctx context.Context, tenant, id string) error {
	return errors.New("store unavailable")
}

var _ secondary.MappingRepository = failingMappingRepo{}
