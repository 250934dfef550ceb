// Package config loads and validates the crosstalk.yaml project
// configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Project     string            `yaml:"project"`
	Version     int               `yaml:"version"`
	Complex     ComplexConfig     `yaml:"complex"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Enrichment  EnrichmentConfig  `yaml:"enrichment"`
	Inputs      InputsConfig      `yaml:"inputs"`
	Database    DatabaseConfig    `yaml:"database"`
}

type ComplexConfig struct {
	Separator string `yaml:"separator"`
	Collapse  string `yaml:"collapse"`
}

type AggregationConfig struct {
	Rule    string   `yaml:"rule"`
	Missing string   `yaml:"missing"`
	Key     []string `yaml:"key"`
}

type EnrichmentConfig struct {
	FDRScope string `yaml:"fdr_scope"`
	TopN     int    `yaml:"top_n"`
}

type InputsConfig struct {
	Resource   string       `yaml:"resource"`
	Dictionary string       `yaml:"dictionary"`
	Annotation string       `yaml:"annotation"`
	Scores     []ScoreInput `yaml:"scores"`
}

type ScoreInput struct {
	Path      string `yaml:"path"`
	Method    string `yaml:"method"`
	Direction string `yaml:"direction"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Complex.Separator == "" {
		cfg.Complex.Separator = "_"
	}
	if cfg.Complex.Collapse == "" {
		cfg.Complex.Collapse = "min"
	}
	if cfg.Aggregation.Rule == "" {
		cfg.Aggregation.Rule = "rra"
	}
	if cfg.Aggregation.Missing == "" {
		cfg.Aggregation.Missing = "worst"
	}
	if len(cfg.Aggregation.Key) == 0 {
		cfg.Aggregation.Key = []string{"source", "target", "ligand", "receptor"}
	}
	if cfg.Enrichment.FDRScope == "" {
		cfg.Enrichment.FDRScope = "global"
	}
	if cfg.Enrichment.TopN == 0 {
		cfg.Enrichment.TopN = 50
	}
	for i := range cfg.Inputs.Scores {
		if cfg.Inputs.Scores[i].Direction == "" {
			cfg.Inputs.Scores[i].Direction = "ascending"
		}
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	switch cfg.Complex.Collapse {
	case "min", "max", "mean":
	default:
		return fmt.Errorf("unknown collapse policy: %s", cfg.Complex.Collapse)
	}
	switch cfg.Aggregation.Rule {
	case "rra", "geomean":
	default:
		return fmt.Errorf("unknown aggregation rule: %s", cfg.Aggregation.Rule)
	}
	switch cfg.Aggregation.Missing {
	case "worst", "drop":
	default:
		return fmt.Errorf("unknown missing-rank policy: %s", cfg.Aggregation.Missing)
	}
	for _, field := range cfg.Aggregation.Key {
		switch field {
		case "source", "target", "ligand", "receptor":
		default:
			return fmt.Errorf("unknown join key field: %s", field)
		}
	}
	switch cfg.Enrichment.FDRScope {
	case "global", "per-group":
	default:
		return fmt.Errorf("unknown fdr scope: %s", cfg.Enrichment.FDRScope)
	}
	if cfg.Enrichment.TopN < 0 {
		return fmt.Errorf("top_n must be positive")
	}
	methods := make(map[string]bool, len(cfg.Inputs.Scores))
	for _, score := range cfg.Inputs.Scores {
		if strings.TrimSpace(score.Path) == "" {
			return fmt.Errorf("score list path is required")
		}
		if strings.TrimSpace(score.Method) == "" {
			return fmt.Errorf("score list method name is required")
		}
		if methods[score.Method] {
			return fmt.Errorf("duplicate score method: %s", score.Method)
		}
		methods[score.Method] = true
		switch score.Direction {
		case "ascending", "descending":
		default:
			return fmt.Errorf("unknown score direction: %s", score.Direction)
		}
	}
	switch cfg.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "" && strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required when a driver is set")
	}
	return nil
}
