package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crosstalk/internal/config"
	"crosstalk/internal/ortholog"
	"crosstalk/internal/pipeline"
	"crosstalk/internal/tabio"
)

var (
	runName          string
	runResourceOut   string
	runAggregateOut  string
	runEnrichmentOut string
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the full pipeline from the configured inputs",
		RunE:  runRun,
	}
	cmd.Flags().StringVar(&runName, "name", "", "Save results to the database under this run name")
	cmd.Flags().StringVar(&runResourceOut, "resource-out", "", "Write the prepared resource to this file")
	cmd.Flags().StringVar(&runAggregateOut, "aggregate-out", "", "Write the consensus ranking to this file")
	cmd.Flags().StringVar(&runEnrichmentOut, "enrichment-out", "", "Write the enrichment results to this file")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	inputs, readReport, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(inputs, pipeline.Options{
		Aggregation: aggregationOptions(cfg),
		FDRScope:    fdrScope(cfg),
		TopN:        cfg.Enrichment.TopN,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Pipeline complete.")
	fmt.Fprintf(os.Stdout, "  Resource rows read:  %d (%d malformed)\n", readReport.Rows, readReport.Malformed)
	fmt.Fprintf(os.Stdout, "  Atomic pairs:        %d\n", result.Decomplexified.RowsOut)
	if inputs.Dictionary.Len() > 0 {
		fmt.Fprintf(os.Stdout, "  Conversion dropped:  %d rows (%d unmapped symbols)\n",
			result.Conversion.RowsDropped, len(result.Conversion.Unmapped))
	}
	fmt.Fprintf(os.Stdout, "  Consensus rows:      %d\n", len(result.Aggregate.Rows))
	if result.Aggregate.EmptyJoin {
		fmt.Fprintln(os.Stderr, "warning: join produced no rows; check the join key format across score lists")
	}
	fmt.Fprintf(os.Stdout, "  Enrichment pairs:    %d (%d groups skipped, %d unannotated hits)\n",
		len(result.Enrichment), result.EnrichReport.SkippedGroups, result.EnrichReport.UnannotatedHits)

	if runResourceOut != "" {
		if err := tabio.WriteResource(runResourceOut, result.Resource, cfg.Complex.Separator); err != nil {
			return err
		}
	}
	if runAggregateOut != "" {
		if err := tabio.WriteAggregate(runAggregateOut, result.Aggregate, cfg.Complex.Separator); err != nil {
			return err
		}
	}
	if runEnrichmentOut != "" {
		if err := tabio.WriteEnrichment(runEnrichmentOut, result.Enrichment); err != nil {
			return err
		}
	}

	if runName != "" {
		ctx := context.Background()
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := db.SaveResource(ctx, runName, result.Resource); err != nil {
			return err
		}
		if err := db.SaveAggregate(ctx, runName, result.Aggregate); err != nil {
			return err
		}
		if err := db.SaveEnrichment(ctx, runName, result.Enrichment); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  Saved as run:        %s\n", runName)
	}
	return nil
}

func loadInputs(cfg *config.Config) (pipeline.Inputs, tabio.ReadReport, error) {
	var inputs pipeline.Inputs

	rows, readReport, err := tabio.ReadResource(cfg.Inputs.Resource, cfg.Complex.Separator)
	if err != nil {
		return inputs, readReport, err
	}
	inputs.Resource = rows

	if cfg.Inputs.Dictionary != "" {
		dict, err := tabio.ReadDictionary(cfg.Inputs.Dictionary)
		if err != nil {
			return inputs, readReport, err
		}
		inputs.Dictionary = dict
	} else {
		inputs.Dictionary = ortholog.NewDictionary(nil)
	}

	if inputs.Scores, err = loadScoreLists(cfg); err != nil {
		return inputs, readReport, err
	}

	if cfg.Inputs.Annotation != "" {
		if inputs.Annotation, err = tabio.ReadAnnotation(cfg.Inputs.Annotation); err != nil {
			return inputs, readReport, err
		}
	}

	return inputs, readReport, nil
}
