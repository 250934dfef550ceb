package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crosstalk/internal/config"
	"crosstalk/internal/enrich"
	"crosstalk/internal/pipeline"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/tabio"
)

var (
	enrichOut  string
	enrichFrom string
	enrichSave string
)

func enrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Test the strongest consensus interactions for gene-set over-representation",
		RunE:  runEnrich,
	}
	cmd.Flags().StringVar(&enrichOut, "out", "", "Output file")
	cmd.Flags().StringVar(&enrichFrom, "from-run", "", "Take the consensus ranking from this saved run instead of re-aggregating")
	cmd.Flags().StringVar(&enrichSave, "save", "", "Save the results to the database under this run name")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	annotation, err := tabio.ReadAnnotation(cfg.Inputs.Annotation)
	if err != nil {
		return err
	}
	universe, err := enrich.NewUniverse(annotation)
	if err != nil {
		return err
	}

	var ranked []rankagg.ResultRow
	ctx := context.Background()
	if enrichFrom != "" {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if ranked, err = db.TopAggregate(ctx, enrichFrom, cfg.Enrichment.TopN); err != nil {
			return err
		}
	} else {
		lists, err := loadScoreLists(cfg)
		if err != nil {
			return err
		}
		result, err := rankagg.Aggregate(lists, aggregationOptions(cfg))
		if err != nil {
			return err
		}
		ranked = result.Rows
	}

	hits := pipeline.HitsByGroup(ranked, cfg.Enrichment.TopN)
	results, report, err := enrich.Test(universe, hits)
	if err != nil {
		return err
	}
	adjusted, err := enrich.AdjustPValues(results, fdrScope(cfg))
	if err != nil {
		return err
	}
	if err := tabio.WriteEnrichment(enrichOut, adjusted); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Enrichment complete.")
	fmt.Fprintf(os.Stdout, "  Groups tested:    %d\n", report.Groups-report.SkippedGroups)
	fmt.Fprintf(os.Stdout, "  Groups skipped:   %d\n", report.SkippedGroups)
	fmt.Fprintf(os.Stdout, "  Unannotated hits: %d\n", report.UnannotatedHits)
	fmt.Fprintf(os.Stdout, "  Pairs tested:     %d\n", len(adjusted))

	if enrichSave != "" {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := db.SaveEnrichment(ctx, enrichSave, adjusted); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  Saved as run:     %s\n", enrichSave)
	}
	return nil
}
