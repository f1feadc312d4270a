package app_test

import (
	"context"
	"testing"

	"github.com/example/buildgraph/internal/app"
	"github.com/example/buildgraph/internal/ports/primary"
)

func TestMappingService_GetAndList(t *testing.T) {
	env := setupEnv(t, settingsWith(identity, nameQual))
	svc := app.NewMappingService(env.mappingRepo)
	ctx := context.Background()

	env.addRun(t, "acme", "r1")
	env.addRun(t, "acme", "r2")
	env.addContainer(t, "acme", "r1", "img", "v1", "", "")
	env.addContainer(t, "acme", "r2", "img", "v1", "", "")
	if _, err := env.correlation.CorrelateTenant(ctx, "acme"); err != nil {
		t.Fatalf("CorrelateTenant failed: %v", err)
	}

	m, err := svc.GetMappingByRuns(ctx, "acme", "r1", "r2")
	if err != nil {
		t.Fatalf("GetMappingByRuns failed: %v", err)
	}
	if m == nil {
		t.Fatalf("expected mapping r1 -> r2")
	}

	byID, err := svc.GetMapping(ctx, "acme", m.ID)
	if err != nil {
		t.Fatalf("GetMapping failed: %v", err)
	}
	if byID == nil || byID.Run1 != "r1" || byID.Run2 != "r2" {
		t.Errorf("unexpected mapping by id: %+v", byID)
	}

	missing, err := svc.GetMappingByRuns(ctx, "acme", "r1", "ghost")
	if err != nil {
		t.Fatalf("GetMappingByRuns failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for absent pair, got %+v", missing)
	}

	outgoing, err := svc.ListMappings(ctx, "acme", primary.ListMappingsRequest{Run1In: []string{"r1"}})
	if err != nil {
		t.Fatalf("ListMappings failed: %v", err)
	}
	if len(outgoing) != 2 {
		t.Errorf("expected 2 outgoing edges for r1, got %d", len(outgoing))
	}

	// Page 1 is the first page: the same two edges, not an empty page.
	paged, err := svc.ListMappings(ctx, "acme", primary.ListMappingsRequest{
		Run1In: []string{"r1"}, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("ListMappings failed: %v", err)
	}
	if len(paged) != 2 {
		t.Errorf("expected page 1 to hold both edges, got %d", len(paged))
	}
}

func TestMappingService_DeleteByRun1(t *testing.T) {
	env := setupEnv(t, settingsWith(identity, nameQual))
	svc := app.NewMappingService(env.mappingRepo)
	ctx := context.Background()

	env.addRun(t, "acme", "r1")
	env.addRun(t, "acme", "r2")
	env.addContainer(t, "acme", "r1", "img", "v1", "", "")
	env.addContainer(t, "acme", "r2", "img", "v1", "", "")
	if _, err := env.correlation.CorrelateTenant(ctx, "acme"); err != nil {
		t.Fatalf("CorrelateTenant failed: %v", err)
	}

	if err := svc.DeleteMappingsByRun1(ctx, "acme", []string{"r1"}); err != nil {
		t.Fatalf("DeleteMappingsByRun1 failed: %v", err)
	}

	// Only r1's outgoing edges are gone; incoming ones stay.
	assertEdges(t, env.edges(t, "acme"), "r2>r1", "r2>r2")
}
