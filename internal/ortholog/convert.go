package ortholog

import (
	"crosstalk/internal/resource"
)

// Report summarises rows lost during conversion. Unmapped counts, per
// missing source symbol, the input rows that symbol removed.
type Report struct {
	RowsIn      int
	RowsOut     int
	RowsDropped int
	Unmapped    map[string]int
}

// Convert rewrites every gene symbol in the resource into the target
// species' vocabulary. Atomic and complex entities are handled
// uniformly: each subunit is looked up independently, and ambiguous
// mappings expand into the Cartesian product of candidates across
// subunits and across the two endpoints, so ambiguity is never
// resolved by picking one candidate. A row is dropped when any of its
// subunits has no mapping.
//
// Rows that were previously decomplexified are recombined first via
// their parent tags, so output rows carry converted complex-level
// entities with the source subunit ordering preserved. For a fixed
// dictionary and input ordering the output is fully deterministic.
func Convert(rows []resource.Row, dict Dictionary) ([]resource.Row, Report) {
	report := Report{RowsIn: len(rows), Unmapped: make(map[string]int)}

	type group struct {
		ligand   resource.Entity
		receptor resource.Entity
		meta     map[string]string
		size     int
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range rows {
		ligand := row.LigandComplex
		if ligand == nil {
			ligand = row.Ligand
		}
		receptor := row.ReceptorComplex
		if receptor == nil {
			receptor = row.Receptor
		}
		key := resource.PairKey(ligand, receptor)
		g, ok := groups[key]
		if !ok {
			g = &group{ligand: ligand, receptor: receptor, meta: row.Meta}
			groups[key] = g
			order = append(order, key)
		}
		g.size++
	}

	var out []resource.Row
	for _, key := range order {
		g := groups[key]
		ligands, missing := convertEntity(g.ligand, dict)
		receptors, missingReceptor := convertEntity(g.receptor, dict)
		missing = append(missing, missingReceptor...)
		if len(missing) > 0 {
			report.RowsDropped += g.size
			for _, symbol := range missing {
				report.Unmapped[symbol] += g.size
			}
			continue
		}
		for _, ligand := range ligands {
			for _, receptor := range receptors {
				out = append(out, resource.Row{
					Ligand:   ligand,
					Receptor: receptor,
					Meta:     g.meta,
				})
			}
		}
	}
	report.RowsOut = len(out)
	return out, report
}

// convertEntity maps every subunit of an entity and returns all
// converted candidates, the Cartesian product across subunit
// ambiguities with subunit order preserved. The second return lists
// subunit symbols with no mapping; when non-empty no candidates are
// produced.
func convertEntity(entity resource.Entity, dict Dictionary) ([]resource.Entity, []string) {
	choices := make([][]string, len(entity))
	var missing []string
	for i, symbol := range entity {
		targets := dict.Targets(symbol)
		if len(targets) == 0 {
			missing = append(missing, symbol)
			continue
		}
		choices[i] = targets
	}
	if len(missing) > 0 {
		return nil, missing
	}

	candidates := []resource.Entity{nil}
	for _, targets := range choices {
		next := make([]resource.Entity, 0, len(candidates)*len(targets))
		for _, prefix := range candidates {
			for _, target := range targets {
				candidate := make(resource.Entity, len(prefix), len(prefix)+1)
				copy(candidate, prefix)
				next = append(next, append(candidate, target))
			}
		}
		candidates = next
	}
	return candidates, nil
}
