package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crosstalk/internal/config"
	"crosstalk/internal/tabio"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured input tables parse cleanly",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	problems := 0

	rows, report, err := tabio.ReadResource(cfg.Inputs.Resource, cfg.Complex.Separator)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Resource %s: %d rows", cfg.Inputs.Resource, report.Rows)
	if report.Malformed > 0 {
		fmt.Fprintf(os.Stdout, ", %d malformed", report.Malformed)
		problems += report.Malformed
	}
	fmt.Fprintln(os.Stdout)

	if cfg.Inputs.Dictionary != "" {
		dict, err := tabio.ReadDictionary(cfg.Inputs.Dictionary)
		if err != nil {
			return err
		}
		covered := 0
		total := 0
		seen := make(map[string]bool)
		for _, row := range rows {
			for _, symbol := range append(append([]string{}, row.Ligand...), row.Receptor...) {
				if seen[symbol] {
					continue
				}
				seen[symbol] = true
				total++
				if len(dict.Targets(symbol)) > 0 {
					covered++
				}
			}
		}
		fmt.Fprintf(os.Stdout, "Dictionary %s: %d mapped symbols, covers %d of %d resource symbols\n",
			cfg.Inputs.Dictionary, dict.Len(), covered, total)
		problems += total - covered
	}

	for _, input := range cfg.Inputs.Scores {
		_, scoreReport, err := tabio.ReadScores(input.Path, cfg.Complex.Separator, input.Method, input.Direction != "descending")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Scores %s (%s): %d rows", input.Path, input.Method, scoreReport.Rows)
		if scoreReport.Malformed > 0 {
			fmt.Fprintf(os.Stdout, ", %d malformed", scoreReport.Malformed)
			problems += scoreReport.Malformed
		}
		fmt.Fprintln(os.Stdout)
	}

	if cfg.Inputs.Annotation != "" {
		annotation, err := tabio.ReadAnnotation(cfg.Inputs.Annotation)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Annotation %s: %d annotated genes\n", cfg.Inputs.Annotation, len(annotation))
	}

	if problems > 0 {
		fmt.Fprintf(os.Stdout, "\n%d potential problems found.\n", problems)
	} else {
		fmt.Fprintln(os.Stdout, "\nAll inputs look valid.")
	}
	return nil
}
