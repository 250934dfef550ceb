// Package ortholog rewrites the gene symbols of an interaction
// resource from one species' vocabulary into another's.
package ortholog

import "sort"

// Dictionary is an immutable one-to-many relation from source-species
// gene symbols to target-species symbols. It is a relation, not a
// function: a source symbol may have several orthologs.
type Dictionary struct {
	targets map[string][]string
}

// NewDictionary builds a dictionary from a raw mapping. Target lists
// are deduplicated and sorted so conversion output is independent of
// how the mapping was assembled.
func NewDictionary(mapping map[string][]string) Dictionary {
	targets := make(map[string][]string, len(mapping))
	for source, list := range mapping {
		seen := make(map[string]bool, len(list))
		uniq := make([]string, 0, len(list))
		for _, target := range list {
			if target == "" || seen[target] {
				continue
			}
			seen[target] = true
			uniq = append(uniq, target)
		}
		if len(uniq) == 0 {
			continue
		}
		sort.Strings(uniq)
		targets[source] = uniq
	}
	return Dictionary{targets: targets}
}

// Targets returns the ortholog symbols for a source symbol, or nil
// when the symbol has no known mapping.
func (d Dictionary) Targets(symbol string) []string {
	return d.targets[symbol]
}

// Len reports how many source symbols have at least one mapping.
func (d Dictionary) Len() int {
	return len(d.targets)
}
