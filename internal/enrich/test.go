package enrich

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// Result is one (group, gene set) over-representation test.
type Result struct {
	Group     string
	GeneSet   string
	Hits      int // annotated hits in the group carrying this set (q)
	Sample    int // distinct annotated hits in the group (k)
	SetSize   int // gene-set population in the universe (m)
	Universe  int // total population (m + n)
	PValue    float64
	AdjPValue float64
}

// Report counts what the test excluded.
type Report struct {
	Groups          int
	SkippedGroups   int
	UnannotatedHits int
}

// Test computes an upper-tail hypergeometric p-value for every
// (group, gene set) pair with at least one annotated hit. Hit genes
// outside the universe are excluded from both numerator and
// denominator; a group left with no annotated hits is skipped and
// counted. Groups and sets are visited in sorted order, so output is
// deterministic regardless of map iteration.
func Test(universe *Universe, hitsByGroup map[string][]string) ([]Result, Report, error) {
	if universe == nil || universe.size == 0 {
		return nil, Report{}, ErrEmptyUniverse
	}

	groups := make([]string, 0, len(hitsByGroup))
	for group := range hitsByGroup {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	report := Report{Groups: len(groups)}
	var results []Result
	for _, group := range groups {
		seen := make(map[string]bool)
		counts := make(map[string]int)
		sample := 0
		for _, gene := range hitsByGroup[group] {
			if seen[gene] {
				continue
			}
			seen[gene] = true
			labels, ok := universe.genes[gene]
			if !ok {
				report.UnannotatedHits++
				continue
			}
			sample++
			for _, label := range labels {
				counts[label]++
			}
		}
		if sample == 0 {
			report.SkippedGroups++
			continue
		}

		sets := make([]string, 0, len(counts))
		for set := range counts {
			sets = append(sets, set)
		}
		sort.Strings(sets)
		for _, set := range sets {
			m := universe.sets[set]
			results = append(results, Result{
				Group:    group,
				GeneSet:  set,
				Hits:     counts[set],
				Sample:   sample,
				SetSize:  m,
				Universe: universe.size,
				PValue:   upperTail(counts[set], sample, m, universe.size-m),
			})
		}
	}
	return results, report, nil
}

// upperTail is P(X >= q) for X ~ Hypergeometric with m successes and
// n failures in the population and k draws, summed exactly in log
// space.
func upperTail(q, k, m, n int) float64 {
	if q <= 0 {
		return 1
	}
	logTotal := combin.LogGeneralizedBinomial(float64(m+n), float64(k))
	upper := k
	if m < upper {
		upper = m
	}
	p := 0.0
	for i := q; i <= upper; i++ {
		if k-i > n {
			continue
		}
		logP := combin.LogGeneralizedBinomial(float64(m), float64(i)) +
			combin.LogGeneralizedBinomial(float64(n), float64(k-i)) -
			logTotal
		p += math.Exp(logP)
	}
	if p > 1 {
		return 1
	}
	return p
}
