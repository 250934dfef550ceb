// Package rankagg combines per-method interaction rankings into one
// consensus ranking.
package rankagg

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"crosstalk/internal/resource"
)

var (
	ErrNoScoreLists    = errors.New("no score lists supplied")
	ErrDuplicateMethod = errors.New("duplicate method name")
	ErrUnknownRule     = errors.New("unknown aggregation rule")
	ErrUnknownPolicy   = errors.New("unknown missing-rank policy")
)

// Entry is one scored interaction in a method's output.
type Entry struct {
	Source   string
	Target   string
	Ligand   resource.Entity
	Receptor resource.Entity
	Score    float64
}

// ScoreList is the complete output of one scoring method. Ascending
// means a lower raw score is stronger evidence; methods whose
// convention is the opposite set it false and are flipped during
// normalization.
type ScoreList struct {
	Method    string
	Ascending bool
	Entries   []Entry
}

// Rule selects the consensus combination statistic.
type Rule string

const (
	// RuleRRA is robust rank aggregation: per interaction, the
	// probability that its observed normalized ranks are at least as
	// extreme as expected under independence across methods.
	RuleRRA Rule = "rra"
	// RuleGeometricMean combines the normalized ranks by geometric
	// mean.
	RuleGeometricMean Rule = "geomean"
)

// MissingPolicy decides what happens to an interaction absent from
// one method's list.
type MissingPolicy string

const (
	// MissingWorst assigns the method's worst observed normalized
	// rank, a conservative penalty.
	MissingWorst MissingPolicy = "worst"
	// MissingDrop keeps only interactions present in every list.
	MissingDrop MissingPolicy = "drop"
)

// KeyField names one attribute of the join key identifying an
// interaction across methods.
type KeyField string

const (
	KeySource   KeyField = "source"
	KeyTarget   KeyField = "target"
	KeyLigand   KeyField = "ligand"
	KeyReceptor KeyField = "receptor"
)

// DefaultKey identifies an interaction by source group, target group
// and both endpoint entities.
func DefaultKey() []KeyField {
	return []KeyField{KeySource, KeyTarget, KeyLigand, KeyReceptor}
}

// Options configures aggregation. Zero values select RuleRRA,
// MissingWorst and DefaultKey. Prenormalized declares that the raw
// scores are already normalized ranks in [0, 1] and skips the
// per-method percentile conversion.
type Options struct {
	Rule          Rule
	Missing       MissingPolicy
	Key           []KeyField
	Prenormalized bool
}

// ResultRow is one interaction's consensus score with full per-method
// provenance.
type ResultRow struct {
	Source      string
	Target      string
	Ligand      resource.Entity
	Receptor    resource.Entity
	Consensus   float64
	MethodRanks map[string]float64
}

// Result is the consensus ranking, sorted ascending by consensus
// score with ties broken by lexicographic join key. EmptyJoin flags a
// zero-row output from non-empty inputs, which usually signals a join
// key format mismatch.
type Result struct {
	Rows      []ResultRow
	Methods   []string
	EmptyJoin bool
}

// Aggregate outer-joins the score lists on the join key and combines
// each interaction's per-method normalized ranks into one consensus
// score. Every interaction present in at least one list appears
// exactly once (under MissingWorst).
func Aggregate(lists []ScoreList, opts Options) (Result, error) {
	if len(lists) == 0 {
		return Result{}, ErrNoScoreLists
	}
	rule := opts.Rule
	if rule == "" {
		rule = RuleRRA
	}
	if rule != RuleRRA && rule != RuleGeometricMean {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownRule, opts.Rule)
	}
	missing := opts.Missing
	if missing == "" {
		missing = MissingWorst
	}
	if missing != MissingWorst && missing != MissingDrop {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, opts.Missing)
	}
	key := opts.Key
	if len(key) == 0 {
		key = DefaultKey()
	}

	methods := make([]string, 0, len(lists))
	seenMethods := make(map[string]bool, len(lists))
	for _, list := range lists {
		if seenMethods[list.Method] {
			return Result{}, fmt.Errorf("%w: %q", ErrDuplicateMethod, list.Method)
		}
		seenMethods[list.Method] = true
		methods = append(methods, list.Method)
	}

	type joined struct {
		entry Entry
		ranks map[string]float64
	}
	rows := make(map[string]*joined)
	var order []string
	worst := make(map[string]float64, len(lists))
	entries := 0

	for _, list := range lists {
		entries += len(list.Entries)
		ranks := normalize(list, opts.Prenormalized)
		for i, entry := range list.Entries {
			k := joinKey(entry, key)
			row, ok := rows[k]
			if !ok {
				row = &joined{entry: entry, ranks: make(map[string]float64, len(lists))}
				rows[k] = row
				order = append(order, k)
			}
			// The same key scored twice by one method keeps its
			// strongest rank.
			if existing, ok := row.ranks[list.Method]; !ok || ranks[i] < existing {
				row.ranks[list.Method] = ranks[i]
			}
			if ranks[i] > worst[list.Method] {
				worst[list.Method] = ranks[i]
			}
		}
	}

	result := Result{Methods: methods}
	for _, k := range order {
		row := rows[k]
		if missing == MissingDrop && len(row.ranks) < len(lists) {
			continue
		}
		vec := make([]float64, 0, len(lists))
		for _, method := range methods {
			rank, ok := row.ranks[method]
			if !ok {
				rank = worst[method]
				if rank == 0 {
					rank = 1
				}
				row.ranks[method] = rank
			}
			vec = append(vec, rank)
		}
		result.Rows = append(result.Rows, ResultRow{
			Source:      row.entry.Source,
			Target:      row.entry.Target,
			Ligand:      row.entry.Ligand,
			Receptor:    row.entry.Receptor,
			Consensus:   combine(vec, rule),
			MethodRanks: row.ranks,
		})
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		if result.Rows[i].Consensus != result.Rows[j].Consensus {
			return result.Rows[i].Consensus < result.Rows[j].Consensus
		}
		return rowKey(result.Rows[i], key) < rowKey(result.Rows[j], key)
	})

	result.EmptyJoin = len(result.Rows) == 0 && entries > 0
	return result, nil
}

func joinKey(entry Entry, fields []KeyField) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		switch field {
		case KeySource:
			parts = append(parts, entry.Source)
		case KeyTarget:
			parts = append(parts, entry.Target)
		case KeyLigand:
			parts = append(parts, entry.Ligand.Encode("\x1f"))
		case KeyReceptor:
			parts = append(parts, entry.Receptor.Encode("\x1f"))
		}
	}
	return strings.Join(parts, "\x1e")
}

func rowKey(row ResultRow, fields []KeyField) string {
	return joinKey(Entry{
		Source:   row.Source,
		Target:   row.Target,
		Ligand:   row.Ligand,
		Receptor: row.Receptor,
	}, fields)
}
