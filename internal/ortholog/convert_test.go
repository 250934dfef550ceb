package ortholog

import (
	"reflect"
	"testing"

	"crosstalk/internal/resource"
)

func TestConvertAmbiguityExpansion(t *testing.T) {
	dict := NewDictionary(map[string][]string{
		"TP53": {"Trp53"},
		"EGFR": {"Egfr1", "Egfr2"},
	})
	rows := []resource.Row{
		{Ligand: resource.Entity{"EGFR"}, Receptor: resource.Entity{"TP53"}},
	}

	out, report := Convert(rows, dict)

	want := []resource.Row{
		{Ligand: resource.Entity{"Egfr1"}, Receptor: resource.Entity{"Trp53"}},
		{Ligand: resource.Entity{"Egfr2"}, Receptor: resource.Entity{"Trp53"}},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	if report.RowsDropped != 0 || report.RowsOut != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestConvertUnmappedSymbolDropsRow(t *testing.T) {
	dict := NewDictionary(map[string][]string{"TP53": {"Trp53"}})
	rows := []resource.Row{
		{Ligand: resource.Entity{"FOO"}, Receptor: resource.Entity{"TP53"}},
		{Ligand: resource.Entity{"TP53"}, Receptor: resource.Entity{"FOO"}},
		{Ligand: resource.Entity{"TP53"}, Receptor: resource.Entity{"TP53"}},
	}

	out, report := Convert(rows, dict)

	if len(out) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(out))
	}
	if report.RowsDropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", report.RowsDropped)
	}
	if report.Unmapped["FOO"] != 2 {
		t.Fatalf("expected FOO to account for 2 rows, got %d", report.Unmapped["FOO"])
	}
}

func TestConvertComplexSubunits(t *testing.T) {
	dict := NewDictionary(map[string][]string{
		"ITGA1": {"Itga1"},
		"ITGB1": {"Itgb1"},
		"COL1A1": {"Col1a1"},
	})
	rows := []resource.Row{
		{Ligand: resource.Entity{"COL1A1"}, Receptor: resource.Entity{"ITGA1", "ITGB1"}},
	}

	out, report := Convert(rows, dict)

	want := []resource.Row{
		{Ligand: resource.Entity{"Col1a1"}, Receptor: resource.Entity{"Itga1", "Itgb1"}},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	if report.RowsOut != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestConvertComplexAmbiguousSubunit(t *testing.T) {
	dict := NewDictionary(map[string][]string{
		"A": {"a1", "a2"},
		"B": {"b"},
		"C": {"c"},
	})
	rows := []resource.Row{
		{Ligand: resource.Entity{"A", "B"}, Receptor: resource.Entity{"C"}},
	}

	out, _ := Convert(rows, dict)

	want := []resource.Row{
		{Ligand: resource.Entity{"a1", "b"}, Receptor: resource.Entity{"c"}},
		{Ligand: resource.Entity{"a2", "b"}, Receptor: resource.Entity{"c"}},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestConvertComplexWithUnmappedSubunitDropped(t *testing.T) {
	dict := NewDictionary(map[string][]string{"A": {"a"}, "C": {"c"}})
	rows := []resource.Row{
		{Ligand: resource.Entity{"A", "B"}, Receptor: resource.Entity{"C"}},
	}

	out, report := Convert(rows, dict)

	if len(out) != 0 {
		t.Fatalf("expected complex with unmapped subunit to be dropped, got %v", out)
	}
	if report.Unmapped["B"] != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestConvertRecombinesDecomplexifiedRows(t *testing.T) {
	dict := NewDictionary(map[string][]string{
		"A1": {"x1"},
		"A2": {"x2"},
		"B":  {"y"},
	})
	raw := []resource.Row{
		{Ligand: resource.Entity{"A1", "A2"}, Receptor: resource.Entity{"B"}},
	}
	atomic, _ := resource.Decomplexify(raw)

	out, report := Convert(atomic, dict)

	want := []resource.Row{
		{Ligand: resource.Entity{"x1", "x2"}, Receptor: resource.Entity{"y"}},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	if report.RowsIn != 2 || report.RowsOut != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestConvertDeterministic(t *testing.T) {
	dict := NewDictionary(map[string][]string{
		"EGFR": {"Egfr2", "Egfr1"}, // construction order must not matter
		"TP53": {"Trp53"},
	})
	rows := []resource.Row{
		{Ligand: resource.Entity{"EGFR"}, Receptor: resource.Entity{"TP53"}},
	}

	first, _ := Convert(rows, dict)
	for i := 0; i < 10; i++ {
		again, _ := Convert(rows, dict)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("conversion output not reproducible: %v vs %v", first, again)
		}
	}
	if !first[0].Ligand.Equal(resource.Entity{"Egfr1"}) {
		t.Fatalf("targets should be in sorted order, got %v", first[0].Ligand)
	}
}

func TestNewDictionaryDeduplicates(t *testing.T) {
	dict := NewDictionary(map[string][]string{
		"A": {"x", "x", "", "y"},
		"B": {""},
	})
	if got := dict.Targets("A"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("got %v", got)
	}
	if dict.Targets("B") != nil {
		t.Fatal("empty targets should be discarded")
	}
	if dict.Len() != 1 {
		t.Fatalf("got len %d", dict.Len())
	}
}
