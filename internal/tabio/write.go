package tabio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
)

// WriteResource writes an interaction resource with entities in the
// boundary encoding. Metadata columns are the sorted union of the
// rows' metadata keys.
func WriteResource(path string, rows []resource.Row, sep string) error {
	return writeFile(path, func(w *csv.Writer) error {
		keys := metaKeys(rows)
		header := append([]string{"ligand", "receptor"}, keys...)
		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			record := make([]string, 0, len(header))
			record = append(record, row.Ligand.Encode(sep), row.Receptor.Encode(sep))
			for _, key := range keys {
				record = append(record, row.Meta[key])
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAtomic writes decomplexified rows with their parent complex
// tags, so an external scorer can hand the pairs back for
// recombination.
func WriteAtomic(path string, rows []resource.Row, sep string) error {
	return writeFile(path, func(w *csv.Writer) error {
		keys := metaKeys(rows)
		header := append([]string{"ligand", "receptor", "ligand_complex", "receptor_complex"}, keys...)
		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			record := make([]string, 0, len(header))
			record = append(record,
				row.Ligand.Encode(sep),
				row.Receptor.Encode(sep),
				row.LigandComplex.Encode(sep),
				row.ReceptorComplex.Encode(sep),
			)
			for _, key := range keys {
				record = append(record, row.Meta[key])
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteScored writes complex-level scored rows.
func WriteScored(path string, rows []resource.ScoredRow, sep string) error {
	return writeFile(path, func(w *csv.Writer) error {
		plain := make([]resource.Row, len(rows))
		for i, row := range rows {
			plain[i] = row.Row
		}
		keys := metaKeys(plain)
		header := append([]string{"ligand", "receptor", "score"}, keys...)
		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			record := make([]string, 0, len(header))
			record = append(record, row.Ligand.Encode(sep), row.Receptor.Encode(sep), formatFloat(row.Score))
			for _, key := range keys {
				record = append(record, row.Meta[key])
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAggregate writes a consensus ranking with one provenance
// column per method.
func WriteAggregate(path string, result rankagg.Result, sep string) error {
	return writeFile(path, func(w *csv.Writer) error {
		header := []string{"source", "target", "ligand", "receptor", "consensus"}
		for _, method := range result.Methods {
			header = append(header, "rank_"+method)
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range result.Rows {
			record := []string{
				row.Source,
				row.Target,
				row.Ligand.Encode(sep),
				row.Receptor.Encode(sep),
				formatFloat(row.Consensus),
			}
			for _, method := range result.Methods {
				record = append(record, formatFloat(row.MethodRanks[method]))
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteEnrichment writes corrected over-representation results.
func WriteEnrichment(path string, results []enrich.Result) error {
	return writeFile(path, func(w *csv.Writer) error {
		header := []string{"group", "geneset", "hits", "sample", "set_size", "universe", "p_value", "adj_p_value"}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, r := range results {
			record := []string{
				r.Group,
				r.GeneSet,
				strconv.Itoa(r.Hits),
				strconv.Itoa(r.Sample),
				strconv.Itoa(r.SetSize),
				strconv.Itoa(r.Universe),
				formatFloat(r.PValue),
				formatFloat(r.AdjPValue),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, fn func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()
	if err := writeTo(f, delimiterFor(path), fn); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeTo(w io.Writer, comma rune, fn func(w *csv.Writer) error) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma
	if err := fn(writer); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func metaKeys(rows []resource.Row) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for key := range row.Meta {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
