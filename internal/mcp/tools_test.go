package mcp

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
	"crosstalk/internal/store"
)

type mockStore struct {
	runs        []store.RunSummary
	aggregate   []rankagg.ResultRow
	enrichment  []enrich.Result
	err         error
	lastRun     string
	lastGroup   string
	lastLimit   int
	lastMaxAdjP float64
}

func (m *mockStore) ListRuns(ctx context.Context) ([]store.RunSummary, error) {
	return m.runs, m.err
}

func (m *mockStore) TopAggregate(ctx context.Context, run string, limit int) ([]rankagg.ResultRow, error) {
	m.lastRun, m.lastLimit = run, limit
	return m.aggregate, m.err
}

func (m *mockStore) ListEnrichment(ctx context.Context, run, group string, maxAdjP float64) ([]enrich.Result, error) {
	m.lastRun, m.lastGroup, m.lastMaxAdjP = run, group, maxAdjP
	return m.enrichment, m.err
}

func TestHandleListRuns(t *testing.T) {
	db := &mockStore{runs: []store.RunSummary{
		{Name: "run1", Interactions: 10, Enrichments: 3},
		{Name: "run2", Interactions: 5, Enrichments: 0},
	}}
	server := NewServer(db, "test")

	_, output, err := server.handleListRuns(context.Background(), nil, ListRunsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ListRunsOutput{Runs: []RunSummaryOutput{
		{Name: "run1", Interactions: 10, Enrichments: 3},
		{Name: "run2", Interactions: 5, Enrichments: 0},
	}}
	if !reflect.DeepEqual(output, want) {
		t.Fatalf("got %+v, want %+v", output, want)
	}
}

func TestHandleListRunsError(t *testing.T) {
	db := &mockStore{err: errors.New("connection lost")}
	server := NewServer(db, "test")

	if _, _, err := server.handleListRuns(context.Background(), nil, ListRunsInput{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestHandleGetConsensus(t *testing.T) {
	db := &mockStore{aggregate: []rankagg.ResultRow{
		{
			Source:      "B",
			Target:      "T",
			Ligand:      resource.Entity{"LIGA", "LIGB"},
			Receptor:    resource.Entity{"RECA"},
			Consensus:   0.08,
			MethodRanks: map[string]float64{"m1": 0.1},
		},
	}}
	server := NewServer(db, "test")

	_, output, err := server.handleGetConsensus(context.Background(), nil, GetConsensusInput{Run: "run1", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastRun != "run1" || db.lastLimit != 5 {
		t.Fatalf("unexpected query: run=%q limit=%d", db.lastRun, db.lastLimit)
	}
	if len(output.Interactions) != 1 {
		t.Fatalf("unexpected output: %+v", output)
	}
	got := output.Interactions[0]
	if got.Source != "B" || got.Consensus != 0.08 {
		t.Fatalf("unexpected interaction: %+v", got)
	}
	if !reflect.DeepEqual(got.Ligand, []string{"LIGA", "LIGB"}) {
		t.Fatalf("unexpected ligand: %v", got.Ligand)
	}
}

func TestHandleGetConsensusRequiresRun(t *testing.T) {
	server := NewServer(&mockStore{}, "test")

	if _, _, err := server.handleGetConsensus(context.Background(), nil, GetConsensusInput{}); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestHandleGetEnrichment(t *testing.T) {
	db := &mockStore{enrichment: []enrich.Result{
		{Group: "B", GeneSet: "pathway", Hits: 2, Sample: 3, SetSize: 4, Universe: 10, PValue: 0.01, AdjPValue: 0.02},
	}}
	server := NewServer(db, "test")

	_, output, err := server.handleGetEnrichment(context.Background(), nil, GetEnrichmentInput{
		Run:     "run1",
		Group:   "B",
		MaxAdjP: 0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastRun != "run1" || db.lastGroup != "B" || db.lastMaxAdjP != 0.05 {
		t.Fatalf("unexpected query: run=%q group=%q cutoff=%v", db.lastRun, db.lastGroup, db.lastMaxAdjP)
	}
	want := GetEnrichmentOutput{Results: []EnrichmentOutput{
		{Group: "B", GeneSet: "pathway", Hits: 2, Sample: 3, SetSize: 4, Universe: 10, PValue: 0.01, AdjPValue: 0.02},
	}}
	if !reflect.DeepEqual(output, want) {
		t.Fatalf("got %+v, want %+v", output, want)
	}
}

func TestHandleGetEnrichmentRequiresRun(t *testing.T) {
	server := NewServer(&mockStore{}, "test")

	if _, _, err := server.handleGetEnrichment(context.Background(), nil, GetEnrichmentInput{Group: "B"}); err == nil {
		t.Fatal("expected error for missing run")
	}
}
