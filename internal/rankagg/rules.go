package rankagg

import (
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// normalize converts a method's raw scores into percentile ranks in
// (0, 1]: the strongest entry gets 1/n and the weakest 1, with ties
// sharing their average rank. Descending methods are flipped so that
// smaller always means stronger. With prenormalized set the raw
// scores are returned as-is.
func normalize(list ScoreList, prenormalized bool) []float64 {
	n := len(list.Entries)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}
	if prenormalized {
		for i, entry := range list.Entries {
			ranks[i] = entry.Score
		}
		return ranks
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if list.Ascending {
			return list.Entries[idx[a]].Score < list.Entries[idx[b]].Score
		}
		return list.Entries[idx[a]].Score > list.Entries[idx[b]].Score
	})

	for i := 0; i < n; {
		j := i
		for j+1 < n && list.Entries[idx[j+1]].Score == list.Entries[idx[i]].Score {
			j++
		}
		// Average of the tied 1-based ranks i+1 .. j+1.
		rank := float64(i+j+2) / 2 / float64(n)
		for k := i; k <= j; k++ {
			ranks[idx[k]] = rank
		}
		i = j + 1
	}
	return ranks
}

func combine(ranks []float64, rule Rule) float64 {
	if rule == RuleGeometricMean {
		return stat.GeometricMean(ranks, nil)
	}
	return rhoScore(ranks)
}

// rhoScore is the robust rank aggregation statistic: under the null
// hypothesis the normalized ranks are independent uniforms, so the
// j-th smallest of n follows Beta(j, n-j+1). The score is the
// smallest of those order-statistic tail probabilities across j,
// Bonferroni-corrected for the n positions considered.
func rhoScore(ranks []float64) float64 {
	sorted := append([]float64(nil), ranks...)
	sort.Float64s(sorted)
	n := len(sorted)

	rho := 1.0
	for j, r := range sorted {
		beta := distuv.Beta{Alpha: float64(j + 1), Beta: float64(n - j)}
		if p := beta.CDF(r); p < rho {
			rho = p
		}
	}
	if p := rho * float64(n); p < 1 {
		return p
	}
	return 1
}
