package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new crosstalk project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%s already exists", configFile)
	}

	contents := fmt.Sprintf(`project: %s
version: 1

complex:
  separator: "_"
  collapse: min

aggregation:
  rule: rra
  missing: worst
  key: [source, target, ligand, receptor]

enrichment:
  fdr_scope: global
  top_n: 50

inputs:
  resource: ./resource.csv
  dictionary: ""
  annotation: ./annotation.csv
  scores:
    - path: ./scores_a.csv
      method: method_a
      direction: ascending

database:
  driver: sqlite
  dsn: sqlite://crosstalk.db
`, projectName)

	if err := os.WriteFile(configFile, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	return nil
}
