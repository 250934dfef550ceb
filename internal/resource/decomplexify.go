package resource

// Report summarises what a transformation kept and excluded, so
// row-level data loss is always visible to the caller.
type Report struct {
	RowsIn  int
	RowsOut int
	Skipped int
}

// Decomplexify expands every row into the Cartesian product of its
// ligand subunits × receptor subunits, one atomic pair per output
// row. Each output row is tagged with the originating entities on
// both sides; non-complex entities pass through as the singleton
// product. Rows with an empty endpoint are skipped and counted.
func Decomplexify(rows []Row) ([]Row, Report) {
	report := Report{RowsIn: len(rows)}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if len(row.Ligand) == 0 || len(row.Receptor) == 0 {
			report.Skipped++
			continue
		}
		if !row.Ligand.IsComplex() && !row.Receptor.IsComplex() {
			out = append(out, Row{
				Ligand:          row.Ligand,
				Receptor:        row.Receptor,
				LigandComplex:   row.Ligand,
				ReceptorComplex: row.Receptor,
				Meta:            row.Meta,
			})
			continue
		}
		for _, ligand := range row.Ligand {
			for _, receptor := range row.Receptor {
				out = append(out, Row{
					Ligand:          Atomic(ligand),
					Receptor:        Atomic(receptor),
					LigandComplex:   row.Ligand,
					ReceptorComplex: row.Receptor,
					Meta:            row.Meta,
				})
			}
		}
	}
	report.RowsOut = len(out)
	return out, report
}
