package tabio

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
)

func TestReadResource(t *testing.T) {
	input := "ligand,receptor,evidence\n" +
		"LIGA_LIGB,RECA,curated\n" +
		"LIGC,RECB_RECC,predicted\n"

	rows, report, err := readResource(strings.NewReader(input), ',', "_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Rows != 2 || report.Malformed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	want := []resource.Row{
		{
			Ligand:   resource.Entity{"LIGA", "LIGB"},
			Receptor: resource.Entity{"RECA"},
			Meta:     map[string]string{"evidence": "curated"},
		},
		{
			Ligand:   resource.Entity{"LIGC"},
			Receptor: resource.Entity{"RECB", "RECC"},
			Meta:     map[string]string{"evidence": "predicted"},
		},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %+v, want %+v", rows, want)
	}
}

func TestReadResourceTab(t *testing.T) {
	input := "ligand\treceptor\nLIG\tREC\n"
	rows, _, err := readResource(strings.NewReader(input), '\t', "_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Ligand[0] != "LIG" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReadResourceMalformed(t *testing.T) {
	input := "ligand,receptor\n" +
		"LIGA__LIGB,RECA\n" + // empty subunit
		"LIGC,RECB\n"

	rows, report, err := readResource(strings.NewReader(input), ',', "_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Rows != 2 || report.Malformed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(rows) != 1 || rows[0].Ligand[0] != "LIGC" {
		t.Fatalf("malformed row must be skipped, got %+v", rows)
	}
}

func TestReadResourceMissingColumn(t *testing.T) {
	input := "ligand,score\nLIG,0.5\n"
	_, _, err := readResource(strings.NewReader(input), ',', "_")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadDictionary(t *testing.T) {
	input := "source,target\n" +
		"EGFR,Egfr2\n" +
		"EGFR,Egfr1\n" +
		"EGFR,Egfr1\n" + // duplicate mapping
		"TP53,Trp53\n" +
		",Orphan\n" // skipped

	dict, err := readDictionary(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dict.Len() != 2 {
		t.Fatalf("expected 2 source symbols, got %d", dict.Len())
	}
	if got := dict.Targets("EGFR"); !reflect.DeepEqual(got, []string{"Egfr1", "Egfr2"}) {
		t.Fatalf("targets must be deduplicated and sorted, got %v", got)
	}
}

func TestReadAnnotation(t *testing.T) {
	input := "gene,geneset\n" +
		"g1,S\n" +
		"g1,T\n" +
		"g2,S\n"

	annotation, err := readAnnotation(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string][]string{
		"g1": {"S", "T"},
		"g2": {"S"},
	}
	if !reflect.DeepEqual(annotation, want) {
		t.Fatalf("got %v, want %v", annotation, want)
	}
}

func TestReadScores(t *testing.T) {
	input := "source,target,ligand,receptor,score\n" +
		"B,T,LIGA,RECA,0.25\n" +
		"B,T,LIGB,RECB,oops\n" + // unparsable score
		"B,T,LIGC,RECC,1e-3\n"

	list, report, err := readScores(strings.NewReader(input), ',', "_", "cellphonedb", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Rows != 3 || report.Malformed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if list.Method != "cellphonedb" || !list.Ascending {
		t.Fatalf("unexpected list identity: %+v", list)
	}
	want := []rankagg.Entry{
		{Source: "B", Target: "T", Ligand: resource.Entity{"LIGA"}, Receptor: resource.Entity{"RECA"}, Score: 0.25},
		{Source: "B", Target: "T", Ligand: resource.Entity{"LIGC"}, Receptor: resource.Entity{"RECC"}, Score: 0.001},
	}
	if !reflect.DeepEqual(list.Entries, want) {
		t.Fatalf("got %+v, want %+v", list.Entries, want)
	}
}

func TestReadScoresMissingColumn(t *testing.T) {
	input := "source,target,ligand,receptor\nB,T,L,R\n"
	_, _, err := readScores(strings.NewReader(input), ',', "_", "m", true)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestDelimiterFor(t *testing.T) {
	if delimiterFor("scores.tsv") != '\t' {
		t.Fatal("expected tab for .tsv")
	}
	if delimiterFor("scores.TSV") != '\t' {
		t.Fatal("extension match must be case-insensitive")
	}
	if delimiterFor("scores.csv") != ',' {
		t.Fatal("expected comma for .csv")
	}
}

func TestWriteResourceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resource.csv")
	rows := []resource.Row{
		{
			Ligand:   resource.Entity{"LIGA", "LIGB"},
			Receptor: resource.Entity{"RECA"},
			Meta:     map[string]string{"evidence": "curated"},
		},
		{
			Ligand:   resource.Entity{"LIGC"},
			Receptor: resource.Entity{"RECB"},
			Meta:     map[string]string{"evidence": "predicted"},
		},
	}

	if err := WriteResource(path, rows, "_"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, report, err := ReadResource(path, "_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Malformed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round trip changed rows: got %+v, want %+v", got, rows)
	}
}

func TestReadScored(t *testing.T) {
	input := "ligand,receptor,ligand_complex,receptor_complex,score\n" +
		"LIGA,RECA,LIGA_LIGB,RECA,0.2\n" +
		"LIGB,RECA,LIGA_LIGB,RECA,0.5\n" +
		"LIGC,RECB,,,0.7\n" + // atomic scorer output without tags
		"LIGD,RECC,LIGD__X,RECC,0.1\n" // malformed parent tag

	rows, report, err := readScored(strings.NewReader(input), ',', "_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Rows != 4 || report.Malformed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	want := []resource.ScoredRow{
		{
			Row: resource.Row{
				Ligand:          resource.Entity{"LIGA"},
				Receptor:        resource.Entity{"RECA"},
				LigandComplex:   resource.Entity{"LIGA", "LIGB"},
				ReceptorComplex: resource.Entity{"RECA"},
			},
			Score: 0.2,
		},
		{
			Row: resource.Row{
				Ligand:          resource.Entity{"LIGB"},
				Receptor:        resource.Entity{"RECA"},
				LigandComplex:   resource.Entity{"LIGA", "LIGB"},
				ReceptorComplex: resource.Entity{"RECA"},
			},
			Score: 0.5,
		},
		{
			Row:   resource.Row{Ligand: resource.Entity{"LIGC"}, Receptor: resource.Entity{"RECB"}},
			Score: 0.7,
		},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %+v, want %+v", rows, want)
	}
}

func TestReadScoredMissingColumn(t *testing.T) {
	input := "ligand,receptor\nLIG,REC\n"
	_, _, err := readScored(strings.NewReader(input), ',', "_")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestScoredRoundTripCollapses(t *testing.T) {
	// decomplexify output, externally scored, must collapse back to
	// one complex-level score under the configured policy.
	dir := t.TempDir()
	atomicPath := filepath.Join(dir, "atomic.csv")
	scoredPath := filepath.Join(dir, "scored.csv")

	atomic, _ := resource.Decomplexify([]resource.Row{
		{Ligand: resource.Entity{"LIGA", "LIGB"}, Receptor: resource.Entity{"RECA"}},
	})
	if err := WriteAtomic(atomicPath, atomic, "_"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate the external scorer appending a score column.
	data, err := os.ReadFile(atomicPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	scores := []string{"score", "0.5", "0.2"}
	for i := range lines {
		lines[i] += "," + scores[i]
	}
	if err := os.WriteFile(scoredPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, report, err := ReadScored(scoredPath, "_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Malformed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	collapsed, err := resource.Recomplexify(rows, resource.CollapseMin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collapsed) != 1 {
		t.Fatalf("expected one complex pair, got %+v", collapsed)
	}
	got := collapsed[0]
	if !got.Ligand.Equal(resource.Entity{"LIGA", "LIGB"}) || !got.Receptor.Equal(resource.Entity{"RECA"}) {
		t.Fatalf("unexpected pair: %+v", got)
	}
	if got.Score != 0.2 {
		t.Fatalf("min collapse of {0.5, 0.2} = %v, want 0.2", got.Score)
	}

	if err := WriteScored(filepath.Join(dir, "complex.csv"), collapsed, "_"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "complex.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ligand,receptor,score\nLIGA_LIGB,RECA,0.2\n"
	if string(out) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestWriteAggregate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "consensus.csv")
	result := rankagg.Result{
		Methods: []string{"m1", "m2"},
		Rows: []rankagg.ResultRow{
			{
				Source:      "B",
				Target:      "T",
				Ligand:      resource.Entity{"LIGA", "LIGB"},
				Receptor:    resource.Entity{"RECA"},
				Consensus:   0.125,
				MethodRanks: map[string]float64{"m1": 0.25, "m2": 0.5},
			},
		},
	}

	if err := WriteAggregate(path, result, "_"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "source,target,ligand,receptor,consensus,rank_m1,rank_m2\n" +
		"B,T,LIGA_LIGB,RECA,0.125,0.25,0.5\n"
	if string(data) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteEnrichment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enrichment.tsv")

	err := WriteEnrichment(path, []enrich.Result{
		{Group: "B", GeneSet: "S", Hits: 2, Sample: 3, SetSize: 4, Universe: 10, PValue: 0.05, AdjPValue: 0.1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "group\tgeneset\thits\tsample\tset_size\tuniverse\tp_value\tadj_p_value\n" +
		"B\tS\t2\t3\t4\t10\t0.05\t0.1\n"
	if string(data) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", data, want)
	}
}
