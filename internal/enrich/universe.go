// Package enrich runs hypergeometric over-representation tests of hit
// gene lists against annotated gene sets, with false-discovery-rate
// correction.
package enrich

import (
	"errors"
	"sort"
)

var ErrEmptyUniverse = errors.New("empty annotation universe")

// Universe is the background population for over-representation
// tests: every distinct annotated gene with its gene-set memberships,
// plus per-set population counts. It is computed once and reused for
// every test.
type Universe struct {
	size  int
	sets  map[string]int
	genes map[string][]string
}

// NewUniverse builds the background population from a gene → gene-set
// annotation relation. Genes without any non-empty label are excluded
// from the population entirely.
func NewUniverse(annotation map[string][]string) (*Universe, error) {
	genes := make(map[string][]string, len(annotation))
	sets := make(map[string]int)
	for gene, labels := range annotation {
		seen := make(map[string]bool, len(labels))
		uniq := make([]string, 0, len(labels))
		for _, label := range labels {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			uniq = append(uniq, label)
		}
		if len(uniq) == 0 {
			continue
		}
		sort.Strings(uniq)
		genes[gene] = uniq
		for _, label := range uniq {
			sets[label]++
		}
	}
	if len(genes) == 0 {
		return nil, ErrEmptyUniverse
	}
	return &Universe{size: len(genes), sets: sets, genes: genes}, nil
}

// Size is the number of distinct annotated genes in the population.
func (u *Universe) Size() int {
	return u.size
}

// SetSize is the population count of one gene set.
func (u *Universe) SetSize(set string) int {
	return u.sets[set]
}

// Annotated reports whether the gene belongs to the population.
func (u *Universe) Annotated(gene string) bool {
	_, ok := u.genes[gene]
	return ok
}
