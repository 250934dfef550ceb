package enrich

import (
	"errors"
	"fmt"
	"sort"
)

// Scope selects whether the correction pools every pair or treats
// each group as its own family of hypotheses.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopePerGroup Scope = "per-group"
)

var ErrUnknownScope = errors.New("unknown correction scope")

// AdjustPValues applies Benjamini-Hochberg correction and returns a
// new slice sorted ascending by adjusted p-value. The input is not
// modified. For the same set of results the adjusted values do not
// depend on input row order.
func AdjustPValues(results []Result, scope Scope) ([]Result, error) {
	switch scope {
	case "", ScopeGlobal:
		scope = ScopeGlobal
	case ScopePerGroup:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}

	out := append([]Result(nil), results...)
	if scope == ScopePerGroup {
		byGroup := make(map[string][]int)
		for i, r := range out {
			byGroup[r.Group] = append(byGroup[r.Group], i)
		}
		for _, idx := range byGroup {
			family := make([]Result, len(idx))
			for i, j := range idx {
				family[i] = out[j]
			}
			benjaminiHochberg(family)
			for i, j := range idx {
				out[j] = family[i]
			}
		}
	} else {
		benjaminiHochberg(out)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AdjPValue != out[j].AdjPValue {
			return out[i].AdjPValue < out[j].AdjPValue
		}
		if out[i].PValue != out[j].PValue {
			return out[i].PValue < out[j].PValue
		}
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].GeneSet < out[j].GeneSet
	})
	return out, nil
}

// benjaminiHochberg fills AdjPValue in place: p * n / rank, with a
// running minimum from the largest p-value down so adjusted values
// are monotone in the raw ones. Tied raw p-values receive identical
// adjusted values.
func benjaminiHochberg(results []Result) {
	n := len(results)
	if n == 0 {
		return
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return results[idx[a]].PValue < results[idx[b]].PValue
	})

	minimum := 1.0
	for i := n - 1; i >= 0; i-- {
		adjusted := results[idx[i]].PValue * float64(n) / float64(i+1)
		if adjusted < minimum {
			minimum = adjusted
		}
		results[idx[i]].AdjPValue = minimum
	}
}
