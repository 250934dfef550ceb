package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"crosstalk/internal/config"
	"crosstalk/internal/ortholog"
	"crosstalk/internal/tabio"
)

var (
	convertIn   string
	convertDict string
	convertOut  string
)

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rewrite a resource into another species via an ortholog dictionary",
		RunE:  runConvert,
	}
	cmd.Flags().StringVar(&convertIn, "resource", "", "Interaction resource file (csv/tsv)")
	cmd.Flags().StringVar(&convertDict, "dict", "", "Ortholog dictionary file (source,target)")
	cmd.Flags().StringVar(&convertOut, "out", "", "Output file")
	cmd.MarkFlagRequired("resource")
	cmd.MarkFlagRequired("dict")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	rows, readReport, err := tabio.ReadResource(convertIn, cfg.Complex.Separator)
	if err != nil {
		return err
	}
	dict, err := tabio.ReadDictionary(convertDict)
	if err != nil {
		return err
	}

	converted, report := ortholog.Convert(rows, dict)
	if err := tabio.WriteResource(convertOut, converted, cfg.Complex.Separator); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Conversion complete.")
	fmt.Fprintf(os.Stdout, "  Rows read:      %d\n", readReport.Rows)
	fmt.Fprintf(os.Stdout, "  Rows malformed: %d\n", readReport.Malformed)
	fmt.Fprintf(os.Stdout, "  Rows dropped:   %d\n", report.RowsDropped)
	fmt.Fprintf(os.Stdout, "  Rows written:   %d\n", report.RowsOut)

	if len(report.Unmapped) > 0 {
		symbols := make([]string, 0, len(report.Unmapped))
		for symbol := range report.Unmapped {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		fmt.Fprintf(os.Stdout, "\nUnmapped symbols (%d):\n", len(symbols))
		for _, symbol := range symbols {
			fmt.Fprintf(os.Stdout, "  - %s (%d rows)\n", symbol, report.Unmapped[symbol])
		}
	}
	return nil
}
