package pipeline

import (
	"errors"
	"reflect"
	"testing"

	"crosstalk/internal/ortholog"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
)

func TestRunEmptyResource(t *testing.T) {
	if _, err := Run(Inputs{}, Options{}); !errors.Is(err, ErrEmptyResource) {
		t.Fatalf("expected ErrEmptyResource, got %v", err)
	}
}

func TestRunResourceOnly(t *testing.T) {
	inputs := Inputs{
		Resource: []resource.Row{
			{Ligand: resource.Entity{"LIGA", "LIGB"}, Receptor: resource.Entity{"RECA"}},
		},
	}

	result, err := Run(inputs, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decomplexified.RowsIn != 1 || result.Decomplexified.RowsOut != 2 {
		t.Fatalf("unexpected expansion report: %+v", result.Decomplexified)
	}
	if len(result.Atomic) != 2 {
		t.Fatalf("expected 2 atomic pairs, got %d", len(result.Atomic))
	}
	if len(result.Aggregate.Rows) != 0 || result.Enrichment != nil {
		t.Fatal("without scores the run must stop after resource preparation")
	}
}

func TestRunWithConversion(t *testing.T) {
	inputs := Inputs{
		Resource: []resource.Row{
			{Ligand: resource.Entity{"EGFR"}, Receptor: resource.Entity{"TP53"}},
		},
		Dictionary: ortholog.NewDictionary(map[string][]string{
			"EGFR": {"Egfr1", "Egfr2"},
			"TP53": {"Trp53"},
		}),
	}

	result, err := Run(inputs, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Conversion.RowsOut != 2 {
		t.Fatalf("expected ambiguity expansion to 2 rows, got %+v", result.Conversion)
	}
	if len(result.Resource) != 2 {
		t.Fatalf("converted resource should replace the original, got %+v", result.Resource)
	}

	var ligands []string
	for _, row := range result.Resource {
		ligands = append(ligands, row.Ligand.Encode("_"))
	}
	if !reflect.DeepEqual(ligands, []string{"Egfr1", "Egfr2"}) {
		t.Fatalf("unexpected converted ligands: %v", ligands)
	}
	if len(result.Atomic) != 2 {
		t.Fatalf("atomic form must follow the converted resource, got %d rows", len(result.Atomic))
	}
}

func TestRunFull(t *testing.T) {
	inputs := Inputs{
		Resource: []resource.Row{
			{Ligand: resource.Entity{"LIGA"}, Receptor: resource.Entity{"RECA"}},
			{Ligand: resource.Entity{"LIGB"}, Receptor: resource.Entity{"RECB"}},
		},
		Scores: []rankagg.ScoreList{
			{Method: "m1", Ascending: true, Entries: []rankagg.Entry{
				{Source: "B", Target: "T", Ligand: resource.Entity{"LIGA"}, Receptor: resource.Entity{"RECA"}, Score: 0.1},
				{Source: "B", Target: "T", Ligand: resource.Entity{"LIGB"}, Receptor: resource.Entity{"RECB"}, Score: 0.9},
			}},
			{Method: "m2", Ascending: true, Entries: []rankagg.Entry{
				{Source: "B", Target: "T", Ligand: resource.Entity{"LIGA"}, Receptor: resource.Entity{"RECA"}, Score: 0.2},
				{Source: "B", Target: "T", Ligand: resource.Entity{"LIGB"}, Receptor: resource.Entity{"RECB"}, Score: 0.8},
			}},
		},
		Annotation: map[string][]string{
			"LIGA": {"pathway"},
			"RECA": {"pathway"},
			"LIGB": {"other"},
			"RECB": {"other"},
		},
	}

	result, err := Run(inputs, Options{TopN: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Aggregate.Rows) != 2 {
		t.Fatalf("expected 2 consensus rows, got %d", len(result.Aggregate.Rows))
	}
	if result.Aggregate.Rows[0].Ligand[0] != "LIGA" {
		t.Fatalf("expected the consistently strong interaction first, got %v", result.Aggregate.Rows[0].Ligand)
	}

	// Only the top interaction feeds enrichment, so only "pathway"
	// carries a hit.
	if len(result.Enrichment) != 1 {
		t.Fatalf("expected 1 enrichment result, got %+v", result.Enrichment)
	}
	got := result.Enrichment[0]
	if got.Group != "B" || got.GeneSet != "pathway" || got.Hits != 2 {
		t.Fatalf("unexpected enrichment result: %+v", got)
	}
	if got.AdjPValue < got.PValue {
		t.Fatalf("adjusted p-value below raw: %+v", got)
	}
	if result.EnrichReport.Groups != 1 {
		t.Fatalf("unexpected enrichment report: %+v", result.EnrichReport)
	}
}

func TestRunAggregationErrorPropagates(t *testing.T) {
	inputs := Inputs{
		Resource: []resource.Row{{Ligand: resource.Entity{"L"}, Receptor: resource.Entity{"R"}}},
		Scores: []rankagg.ScoreList{
			{Method: "m", Entries: []rankagg.Entry{{Ligand: resource.Entity{"L"}, Receptor: resource.Entity{"R"}, Score: 1}}},
			{Method: "m", Entries: []rankagg.Entry{{Ligand: resource.Entity{"L"}, Receptor: resource.Entity{"R"}, Score: 1}}},
		},
	}

	if _, err := Run(inputs, Options{}); !errors.Is(err, rankagg.ErrDuplicateMethod) {
		t.Fatalf("expected ErrDuplicateMethod, got %v", err)
	}
}

func TestHitsByGroup(t *testing.T) {
	rows := []rankagg.ResultRow{
		{Source: "B", Ligand: resource.Entity{"L1", "L2"}, Receptor: resource.Entity{"R1"}},
		{Source: "T", Ligand: resource.Entity{"L3"}, Receptor: resource.Entity{"R2"}},
		{Source: "B", Ligand: resource.Entity{"L4"}, Receptor: resource.Entity{"R3"}},
	}

	hits := HitsByGroup(rows, 2)
	want := map[string][]string{
		"B": {"L1", "L2", "R1"},
		"T": {"L3", "R2"},
	}
	if !reflect.DeepEqual(hits, want) {
		t.Fatalf("got %v, want %v", hits, want)
	}

	all := HitsByGroup(rows, 0)
	if len(all["B"]) != 5 {
		t.Fatalf("topN <= 0 must keep everything, got %v", all)
	}
}
