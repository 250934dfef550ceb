package main

import (
	"fmt"
	"os"

	"crosstalk/internal/config"
	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
	"crosstalk/internal/tabio"
)

const configFile = "crosstalk.yaml"

func collapsePolicy(cfg *config.Config) resource.CollapsePolicy {
	return resource.CollapsePolicy(cfg.Complex.Collapse)
}

func fdrScope(cfg *config.Config) enrich.Scope {
	return enrich.Scope(cfg.Enrichment.FDRScope)
}

func aggregationOptions(cfg *config.Config) rankagg.Options {
	key := make([]rankagg.KeyField, 0, len(cfg.Aggregation.Key))
	for _, field := range cfg.Aggregation.Key {
		key = append(key, rankagg.KeyField(field))
	}
	return rankagg.Options{
		Rule:    rankagg.Rule(cfg.Aggregation.Rule),
		Missing: rankagg.MissingPolicy(cfg.Aggregation.Missing),
		Key:     key,
	}
}

// loadScoreLists reads every configured score list, reporting skipped
// rows per file.
func loadScoreLists(cfg *config.Config) ([]rankagg.ScoreList, error) {
	lists := make([]rankagg.ScoreList, 0, len(cfg.Inputs.Scores))
	for _, input := range cfg.Inputs.Scores {
		list, report, err := tabio.ReadScores(input.Path, cfg.Complex.Separator, input.Method, input.Direction != "descending")
		if err != nil {
			return nil, err
		}
		if report.Malformed > 0 {
			fmt.Fprintf(os.Stderr, "warning: %s: %d of %d rows malformed, skipped\n", input.Path, report.Malformed, report.Rows)
		}
		lists = append(lists, list)
	}
	return lists, nil
}
