package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crosstalk/internal/config"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/tabio"
)

var (
	aggregateOut string
	aggregateRun string
)

func aggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Combine the configured per-method score lists into a consensus ranking",
		RunE:  runAggregate,
	}
	cmd.Flags().StringVar(&aggregateOut, "out", "", "Output file")
	cmd.Flags().StringVar(&aggregateRun, "save", "", "Save the ranking to the database under this run name")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	lists, err := loadScoreLists(cfg)
	if err != nil {
		return err
	}

	result, err := rankagg.Aggregate(lists, aggregationOptions(cfg))
	if err != nil {
		return err
	}
	if err := tabio.WriteAggregate(aggregateOut, result, cfg.Complex.Separator); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Aggregation complete.")
	fmt.Fprintf(os.Stdout, "  Methods:      %d\n", len(result.Methods))
	fmt.Fprintf(os.Stdout, "  Interactions: %d\n", len(result.Rows))
	if result.EmptyJoin {
		fmt.Fprintln(os.Stderr, "warning: join produced no rows; check the join key format across score lists")
	}

	if aggregateRun != "" {
		ctx := context.Background()
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := db.SaveAggregate(ctx, aggregateRun, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  Saved as run: %s\n", aggregateRun)
	}
	return nil
}
