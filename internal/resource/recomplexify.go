package resource

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CollapsePolicy selects how subunit-level scores are combined back
// into one complex-level score.
type CollapsePolicy string

const (
	CollapseMin  CollapsePolicy = "min"
	CollapseMax  CollapsePolicy = "max"
	CollapseMean CollapsePolicy = "mean"
)

var ErrUnknownPolicy = errors.New("unknown collapse policy")

// Recomplexify recombines scored atomic rows into one row per
// originating complex pair, collapsing the subunit scores under
// policy. Output order follows first appearance of each complex pair.
// A complex pair whose atomic rows were all filtered out beforehand
// simply does not appear; that is not an error.
func Recomplexify(rows []ScoredRow, policy CollapsePolicy) ([]ScoredRow, error) {
	switch policy {
	case CollapseMin, CollapseMax, CollapseMean:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}

	type group struct {
		row    Row
		scores []float64
	}
	groups := make(map[string]*group)
	var order []string

	for _, scored := range rows {
		ligand := scored.LigandComplex
		if ligand == nil {
			ligand = scored.Ligand
		}
		receptor := scored.ReceptorComplex
		if receptor == nil {
			receptor = scored.Receptor
		}
		key := PairKey(ligand, receptor)
		g, ok := groups[key]
		if !ok {
			g = &group{row: Row{Ligand: ligand, Receptor: receptor, Meta: scored.Meta}}
			groups[key] = g
			order = append(order, key)
		}
		g.scores = append(g.scores, scored.Score)
	}

	out := make([]ScoredRow, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, ScoredRow{Row: g.row, Score: collapse(g.scores, policy)})
	}
	return out, nil
}

func collapse(scores []float64, policy CollapsePolicy) float64 {
	switch policy {
	case CollapseMax:
		return floats.Max(scores)
	case CollapseMean:
		return stat.Mean(scores, nil)
	default:
		return floats.Min(scores)
	}
}
