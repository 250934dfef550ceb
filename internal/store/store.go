// Package store defines the persistence interface for prepared
// resources and analysis runs, with sqlite and postgres backends.
package store

import (
	"context"

	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
)

// RunSummary describes one saved analysis run.
type RunSummary struct {
	Name         string
	Interactions int
	Enrichments  int
}

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveResource(ctx context.Context, name string, rows []resource.Row) error
	LoadResource(ctx context.Context, name string) ([]resource.Row, error)

	SaveAggregate(ctx context.Context, run string, result rankagg.Result) error
	TopAggregate(ctx context.Context, run string, limit int) ([]rankagg.ResultRow, error)

	SaveEnrichment(ctx context.Context, run string, results []enrich.Result) error
	ListEnrichment(ctx context.Context, run, group string, maxAdjP float64) ([]enrich.Result, error)

	ListRuns(ctx context.Context) ([]RunSummary, error)
}
