package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/store"
)

// resultStore is the slice of store.Store the tools need.
type resultStore interface {
	ListRuns(ctx context.Context) ([]store.RunSummary, error)
	TopAggregate(ctx context.Context, run string, limit int) ([]rankagg.ResultRow, error)
	ListEnrichment(ctx context.Context, run, group string, maxAdjP float64) ([]enrich.Result, error)
}

type ListRunsInput struct{}

type GetConsensusInput struct {
	Run   string `json:"run" jsonschema:"analysis run name"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of interactions"`
}

type GetEnrichmentInput struct {
	Run     string  `json:"run" jsonschema:"analysis run name"`
	Group   string  `json:"group,omitempty" jsonschema:"restrict to one source group"`
	MaxAdjP float64 `json:"max_adj_p,omitempty" jsonschema:"adjusted p-value cutoff"`
}

type RunSummaryOutput struct {
	Name         string `json:"name"`
	Interactions int    `json:"interactions"`
	Enrichments  int    `json:"enrichments"`
}

type ListRunsOutput struct {
	Runs []RunSummaryOutput `json:"runs"`
}

type InteractionOutput struct {
	Source      string             `json:"source"`
	Target      string             `json:"target"`
	Ligand      []string           `json:"ligand"`
	Receptor    []string           `json:"receptor"`
	Consensus   float64            `json:"consensus"`
	MethodRanks map[string]float64 `json:"method_ranks,omitempty"`
}

type GetConsensusOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
}

type EnrichmentOutput struct {
	Group     string  `json:"group"`
	GeneSet   string  `json:"geneset"`
	Hits      int     `json:"hits"`
	Sample    int     `json:"sample"`
	SetSize   int     `json:"set_size"`
	Universe  int     `json:"universe"`
	PValue    float64 `json:"p_value"`
	AdjPValue float64 `json:"adj_p_value"`
}

type GetEnrichmentOutput struct {
	Results []EnrichmentOutput `json:"results"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_runs",
		Description: "List saved analysis runs",
	}, s.handleListRuns)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_consensus",
		Description: "Return a run's strongest consensus interactions",
	}, s.handleGetConsensus)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_enrichment",
		Description: "Return a run's gene-set enrichment results",
	}, s.handleGetEnrichment)
}

func (s *Server) handleListRuns(ctx context.Context, req *sdk.CallToolRequest, input ListRunsInput) (*sdk.CallToolResult, ListRunsOutput, error) {
	runs, err := s.db.ListRuns(ctx)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}
	output := make([]RunSummaryOutput, 0, len(runs))
	for _, run := range runs {
		output = append(output, RunSummaryOutput{
			Name:         run.Name,
			Interactions: run.Interactions,
			Enrichments:  run.Enrichments,
		})
	}
	return nil, ListRunsOutput{Runs: output}, nil
}

func (s *Server) handleGetConsensus(ctx context.Context, req *sdk.CallToolRequest, input GetConsensusInput) (*sdk.CallToolResult, GetConsensusOutput, error) {
	if input.Run == "" {
		return nil, GetConsensusOutput{}, fmt.Errorf("run is required")
	}
	rows, err := s.db.TopAggregate(ctx, input.Run, input.Limit)
	if err != nil {
		return nil, GetConsensusOutput{}, err
	}
	output := make([]InteractionOutput, 0, len(rows))
	for _, row := range rows {
		output = append(output, InteractionOutput{
			Source:      row.Source,
			Target:      row.Target,
			Ligand:      row.Ligand,
			Receptor:    row.Receptor,
			Consensus:   row.Consensus,
			MethodRanks: row.MethodRanks,
		})
	}
	return nil, GetConsensusOutput{Interactions: output}, nil
}

func (s *Server) handleGetEnrichment(ctx context.Context, req *sdk.CallToolRequest, input GetEnrichmentInput) (*sdk.CallToolResult, GetEnrichmentOutput, error) {
	if input.Run == "" {
		return nil, GetEnrichmentOutput{}, fmt.Errorf("run is required")
	}
	results, err := s.db.ListEnrichment(ctx, input.Run, input.Group, input.MaxAdjP)
	if err != nil {
		return nil, GetEnrichmentOutput{}, err
	}
	output := make([]EnrichmentOutput, 0, len(results))
	for _, r := range results {
		output = append(output, EnrichmentOutput{
			Group:     r.Group,
			GeneSet:   r.GeneSet,
			Hits:      r.Hits,
			Sample:    r.Sample,
			SetSize:   r.SetSize,
			Universe:  r.Universe,
			PValue:    r.PValue,
			AdjPValue: r.AdjPValue,
		})
	}
	return nil, GetEnrichmentOutput{Results: output}, nil
}
