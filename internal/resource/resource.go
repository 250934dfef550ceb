// Package resource models ligand-receptor interaction tables and the
// expansion of multi-subunit complexes into atomic gene pairs.
package resource

// Row is one interaction record: a directed ligand→receptor pair plus
// arbitrary side columns carried through the pipeline untouched.
//
// LigandComplex and ReceptorComplex record the originating entities
// after decomplexification; they are nil on raw resource rows. For an
// atomic pass-through row they equal the ligand/receptor themselves,
// so recombination treats singleton and complex rows uniformly.
type Row struct {
	Ligand   Entity
	Receptor Entity

	LigandComplex   Entity
	ReceptorComplex Entity

	Meta map[string]string
}

// ScoredRow is a row with a per-method or consensus score attached,
// as handed back by the external scoring step.
type ScoredRow struct {
	Row
	Score float64
}

// PairKey is a collision-free identity for a (ligand, receptor)
// entity pair, independent of the boundary separator convention. The
// unit separators cannot occur in gene symbols.
func PairKey(ligand, receptor Entity) string {
	return ligand.Encode("\x1f") + "\x1e" + receptor.Encode("\x1f")
}
