// Package pipeline chains the core stages: resource expansion,
// ortholog conversion, consensus rank aggregation and gene-set
// enrichment. Every stage reports what it dropped so data loss is
// observable end to end.
package pipeline

import (
	"errors"
	"fmt"

	"crosstalk/internal/enrich"
	"crosstalk/internal/ortholog"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
)

var ErrEmptyResource = errors.New("empty interaction resource")

// Inputs are the pre-loaded in-memory tables the pipeline runs on.
// A zero-length dictionary skips ortholog conversion. Scores and
// Annotation are optional: without scores the run stops after
// resource preparation, without annotation after aggregation.
type Inputs struct {
	Resource   []resource.Row
	Dictionary ortholog.Dictionary
	Scores     []rankagg.ScoreList
	Annotation map[string][]string
}

// Options carries the per-stage configuration choices.
type Options struct {
	Aggregation rankagg.Options
	FDRScope    enrich.Scope
	TopN        int
}

// Result is the pipeline output plus per-stage exclusion reports.
// Resource is the prepared complex-level resource (converted when a
// dictionary was supplied), Atomic its decomplexified form as handed
// to subunit-level scoring.
type Result struct {
	Resource   []resource.Row
	Atomic     []resource.Row
	Aggregate  rankagg.Result
	Enrichment []enrich.Result

	Decomplexified resource.Report
	Conversion     ortholog.Report
	EnrichReport   enrich.Report
}

// Run executes the pipeline over the given inputs. The inputs are
// never mutated; each stage produces a fresh table.
func Run(inputs Inputs, opts Options) (*Result, error) {
	if len(inputs.Resource) == 0 {
		return nil, ErrEmptyResource
	}

	result := &Result{Resource: inputs.Resource}

	atomic, decReport := resource.Decomplexify(inputs.Resource)
	result.Decomplexified = decReport
	if inputs.Dictionary.Len() > 0 {
		converted, convReport := ortholog.Convert(atomic, inputs.Dictionary)
		result.Conversion = convReport
		result.Resource = converted
		atomic, _ = resource.Decomplexify(converted)
	}
	result.Atomic = atomic

	if len(inputs.Scores) == 0 {
		return result, nil
	}
	aggregate, err := rankagg.Aggregate(inputs.Scores, opts.Aggregation)
	if err != nil {
		return nil, fmt.Errorf("aggregating ranks: %w", err)
	}
	result.Aggregate = aggregate

	if len(inputs.Annotation) == 0 {
		return result, nil
	}
	universe, err := enrich.NewUniverse(inputs.Annotation)
	if err != nil {
		return nil, fmt.Errorf("building universe: %w", err)
	}
	hits := HitsByGroup(aggregate.Rows, opts.TopN)
	tests, report, err := enrich.Test(universe, hits)
	if err != nil {
		return nil, fmt.Errorf("enrichment test: %w", err)
	}
	result.EnrichReport = report
	adjusted, err := enrich.AdjustPValues(tests, opts.FDRScope)
	if err != nil {
		return nil, fmt.Errorf("adjusting p-values: %w", err)
	}
	result.Enrichment = adjusted

	return result, nil
}

// HitsByGroup collects, per source group, the gene symbols taking
// part in the strongest topN consensus interactions. Both endpoints
// contribute all their subunits. topN <= 0 keeps everything.
func HitsByGroup(rows []rankagg.ResultRow, topN int) map[string][]string {
	if topN > 0 && topN < len(rows) {
		rows = rows[:topN]
	}
	hits := make(map[string][]string)
	for _, row := range rows {
		genes := hits[row.Source]
		genes = append(genes, row.Ligand...)
		genes = append(genes, row.Receptor...)
		hits[row.Source] = genes
	}
	return hits
}
