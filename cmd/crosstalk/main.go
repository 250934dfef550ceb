package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "crosstalk",
		Short: "Statistics for ligand-receptor interaction analysis",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(decomplexifyCmd())
	root.AddCommand(recomplexifyCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(aggregateCmd())
	root.AddCommand(enrichCmd())
	root.AddCommand(runCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
