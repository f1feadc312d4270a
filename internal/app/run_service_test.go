package app_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/buildgraph/internal/app"
	"github.com/example/buildgraph/internal/ports/primary"
)

func TestRunService_CreateAndGet(t *testing.T) {
	env := setupEnv(t, settingsWith(identity))
	svc := app.NewRunService(env.runRepo, env.artifactRepo, env.correlation)
	ctx := context.Background()

	run, err := svc.CreateRun(ctx, primary.CreateRunRequest{
		Tenant: "acme", ID: "RUN-001", Job: "api-build", Status: "succeeded",
	})
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if run.ID != "RUN-001" || run.Job != "api-build" {
		t.Errorf("unexpected run: %+v", run)
	}

	got, err := svc.GetRun(ctx, "acme", "RUN-001")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.CreatedAt == "" {
		t.Errorf("expected created_at to be populated")
	}

	if _, err := svc.GetRun(ctx, "acme", "nope"); err == nil {
		t.Errorf("expected error for missing run")
	}
}

func TestRunService_ListPagesAreOneBased(t *testing.T) {
	env := setupEnv(t, settingsWith(identity))
	svc := app.NewRunService(env.runRepo, env.artifactRepo, env.correlation)
	ctx := context.Background()

	env.addRun(t, "acme", "r1")
	env.addRun(t, "acme", "r2")
	env.addRun(t, "acme", "r3")

	// Page 1 is the first page, not the second.
	first, err := svc.ListRuns(ctx, "acme", primary.ListRunsRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(first) != 2 || first[0].ID != "r1" || first[1].ID != "r2" {
		t.Fatalf("expected first page [r1 r2], got %+v", first)
	}

	second, err := svc.ListRuns(ctx, "acme", primary.ListRunsRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(second) != 1 || second[0].ID != "r3" {
		t.Fatalf("expected second page [r3], got %+v", second)
	}

	// Page 0 means the first page too.
	zero, err := svc.ListRuns(ctx, "acme", primary.ListRunsRequest{Page: 0, PageSize: 2})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(zero) != 2 || zero[0].ID != "r1" {
		t.Fatalf("expected page 0 to equal page 1, got %+v", zero)
	}
}

func TestRunService_IngestRunTriggersCorrelation(t *testing.T) {
	env := setupEnv(t, settingsWith(identity, nameQual))
	svc := app.NewRunService(env.runRepo, env.artifactRepo, env.correlation)
	ctx := context.Background()

	// An earlier run already produced the image.
	env.addRun(t, "acme", "r1")
	env.addContainer(t, "acme", "r1", "img", "v1", "", "")

	resp, err := svc.IngestRun(ctx, primary.IngestRunRequest{
		Run: primary.CreateRunRequest{Tenant: "acme", ID: "r2", Job: "deploy"},
		Artifacts: []primary.CreateArtifactRequest{
			{Type: "container", Name: "img", Qualifier: "v1", IsInput: true},
		},
	})
	if err != nil {
		t.Fatalf("IngestRun failed: %v", err)
	}
	if len(resp.ArtifactIDs) != 1 {
		t.Fatalf("expected 1 artifact id, got %v", resp.ArtifactIDs)
	}

	// Incremental correlation linked the new run both ways.
	assertEdges(t, env.edges(t, "acme"), "r2>r1", "r2>r2", "r1>r2")
}

func TestRunService_IngestRunSurvivesCorrelationFailure(t *testing.T) {
	env := setupEnv(t, settingsWith(identity))
	broken := app.NewCorrelationService(
		env.runRepo, env.artifactRepo, failingMappingRepo{},
		settingsWith(identity), zerolog.Nop(),
	)
	svc := app.NewRunService(env.runRepo, env.artifactRepo, broken)
	ctx := context.Background()

	resp, err := svc.IngestRun(ctx, primary.IngestRunRequest{
		Run: primary.CreateRunRequest{Tenant: "acme", ID: "r1", Job: "build"},
		Artifacts: []primary.CreateArtifactRequest{
			{Type: "container", Name: "img", Qualifier: "v1"},
		},
	})
	if err != nil {
		t.Fatalf("expected ingestion to succeed despite correlation failure, got %v", err)
	}
	if resp.Run.ID != "r1" {
		t.Errorf("unexpected run: %+v", resp.Run)
	}
}

func TestRunService_DeleteCascades(t *testing.T) {
	env := setupEnv(t, settingsWith(identity, nameQual))
	svc := app.NewRunService(env.runRepo, env.artifactRepo, env.correlation)
	ctx := context.Background()

	env.addRun(t, "acme", "r1")
	env.addRun(t, "acme", "r2")
	env.addContainer(t, "acme", "r1", "img", "v1", "", "")
	env.addContainer(t, "acme", "r2", "img", "v1", "", "")
	if _, err := env.correlation.CorrelateTenant(ctx, "acme"); err != nil {
		t.Fatalf("CorrelateTenant failed: %v", err)
	}

	if err := svc.DeleteRun(ctx, "acme", "r1"); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}

	// Every edge touching r1 went with it.
	assertEdges(t, env.edges(t, "acme"), "r2>r2")
}
