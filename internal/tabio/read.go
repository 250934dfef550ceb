// Package tabio reads and writes the delimited tables exchanged with
// the surrounding tooling: interaction resources, ortholog
// dictionaries, gene-set annotations and per-method score lists. The
// string encoding of complexes lives only here and in
// resource.ParseEntity; the rest of the pipeline works on structured
// entities.
package tabio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"crosstalk/internal/ortholog"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/resource"
)

var ErrMissingColumn = errors.New("missing required column")

// ReadReport counts rows excluded while reading a table.
type ReadReport struct {
	Rows      int
	Malformed int
}

// delimiterFor picks the field delimiter from the file extension:
// tab for .tsv, comma otherwise.
func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadResource loads an interaction resource. Required columns are
// "ligand" and "receptor"; any other column is carried as row
// metadata. Rows with a malformed complex encoding are skipped and
// counted.
func ReadResource(path, sep string) ([]resource.Row, ReadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadReport{}, fmt.Errorf("reading resource: %w", err)
	}
	defer f.Close()
	rows, report, err := readResource(f, delimiterFor(path), sep)
	if err != nil {
		return nil, report, fmt.Errorf("reading resource %s: %w", path, err)
	}
	return rows, report, nil
}

func readResource(r io.Reader, comma rune, sep string) ([]resource.Row, ReadReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader)
	if err != nil {
		return nil, ReadReport{}, err
	}
	ligandCol, ok := header["ligand"]
	if !ok {
		return nil, ReadReport{}, fmt.Errorf("%w: ligand", ErrMissingColumn)
	}
	receptorCol, ok := header["receptor"]
	if !ok {
		return nil, ReadReport{}, fmt.Errorf("%w: receptor", ErrMissingColumn)
	}
	metaCols := make(map[string]int)
	for name, idx := range header {
		if name != "ligand" && name != "receptor" {
			metaCols[name] = idx
		}
	}

	var rows []resource.Row
	var report ReadReport
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("reading record: %w", err)
		}
		report.Rows++
		ligand, err := resource.ParseEntity(record[ligandCol], sep)
		if err != nil {
			report.Malformed++
			continue
		}
		receptor, err := resource.ParseEntity(record[receptorCol], sep)
		if err != nil {
			report.Malformed++
			continue
		}
		row := resource.Row{Ligand: ligand, Receptor: receptor}
		if len(metaCols) > 0 {
			row.Meta = make(map[string]string, len(metaCols))
			for name, idx := range metaCols {
				row.Meta[name] = record[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, report, nil
}

// ReadScored loads scored atomic pairs as handed back by an external
// scoring step over a decomplexified resource. Required columns are
// "ligand", "receptor" and "score"; "ligand_complex" and
// "receptor_complex" carry the parent tags written alongside the
// atomic pairs and may be empty. Any other column is carried as row
// metadata. Malformed rows are skipped and counted.
func ReadScored(path, sep string) ([]resource.ScoredRow, ReadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadReport{}, fmt.Errorf("reading scored pairs: %w", err)
	}
	defer f.Close()
	rows, report, err := readScored(f, delimiterFor(path), sep)
	if err != nil {
		return nil, report, fmt.Errorf("reading scored pairs %s: %w", path, err)
	}
	return rows, report, nil
}

func readScored(r io.Reader, comma rune, sep string) ([]resource.ScoredRow, ReadReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader)
	if err != nil {
		return nil, ReadReport{}, err
	}
	for _, name := range []string{"ligand", "receptor", "score"} {
		if _, ok := header[name]; !ok {
			return nil, ReadReport{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	ligandComplexCol, hasLigandComplex := header["ligand_complex"]
	receptorComplexCol, hasReceptorComplex := header["receptor_complex"]
	metaCols := make(map[string]int)
	for name, idx := range header {
		switch name {
		case "ligand", "receptor", "score", "ligand_complex", "receptor_complex":
		default:
			metaCols[name] = idx
		}
	}

	var rows []resource.ScoredRow
	var report ReadReport
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("reading record: %w", err)
		}
		report.Rows++
		ligand, err := resource.ParseEntity(record[header["ligand"]], sep)
		if err != nil {
			report.Malformed++
			continue
		}
		receptor, err := resource.ParseEntity(record[header["receptor"]], sep)
		if err != nil {
			report.Malformed++
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[header["score"]]), 64)
		if err != nil {
			report.Malformed++
			continue
		}
		row := resource.ScoredRow{
			Row:   resource.Row{Ligand: ligand, Receptor: receptor},
			Score: score,
		}
		if hasLigandComplex && strings.TrimSpace(record[ligandComplexCol]) != "" {
			if row.LigandComplex, err = resource.ParseEntity(record[ligandComplexCol], sep); err != nil {
				report.Malformed++
				continue
			}
		}
		if hasReceptorComplex && strings.TrimSpace(record[receptorComplexCol]) != "" {
			if row.ReceptorComplex, err = resource.ParseEntity(record[receptorComplexCol], sep); err != nil {
				report.Malformed++
				continue
			}
		}
		if len(metaCols) > 0 {
			row.Meta = make(map[string]string, len(metaCols))
			for name, idx := range metaCols {
				row.Meta[name] = record[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, report, nil
}

// ReadDictionary loads an ortholog dictionary from a table with
// "source" and "target" columns, one mapping per row.
func ReadDictionary(path string) (ortholog.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ortholog.Dictionary{}, fmt.Errorf("reading dictionary: %w", err)
	}
	defer f.Close()
	dict, err := readDictionary(f, delimiterFor(path))
	if err != nil {
		return ortholog.Dictionary{}, fmt.Errorf("reading dictionary %s: %w", path, err)
	}
	return dict, nil
}

func readDictionary(r io.Reader, comma rune) (ortholog.Dictionary, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader)
	if err != nil {
		return ortholog.Dictionary{}, err
	}
	sourceCol, ok := header["source"]
	if !ok {
		return ortholog.Dictionary{}, fmt.Errorf("%w: source", ErrMissingColumn)
	}
	targetCol, ok := header["target"]
	if !ok {
		return ortholog.Dictionary{}, fmt.Errorf("%w: target", ErrMissingColumn)
	}

	mapping := make(map[string][]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ortholog.Dictionary{}, fmt.Errorf("reading record: %w", err)
		}
		source := strings.TrimSpace(record[sourceCol])
		target := strings.TrimSpace(record[targetCol])
		if source == "" || target == "" {
			continue
		}
		mapping[source] = append(mapping[source], target)
	}
	return ortholog.NewDictionary(mapping), nil
}

// ReadAnnotation loads a gene → gene-set relation from a table with
// "gene" and "geneset" columns.
func ReadAnnotation(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotation: %w", err)
	}
	defer f.Close()
	annotation, err := readAnnotation(f, delimiterFor(path))
	if err != nil {
		return nil, fmt.Errorf("reading annotation %s: %w", path, err)
	}
	return annotation, nil
}

func readAnnotation(r io.Reader, comma rune) (map[string][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	geneCol, ok := header["gene"]
	if !ok {
		return nil, fmt.Errorf("%w: gene", ErrMissingColumn)
	}
	setCol, ok := header["geneset"]
	if !ok {
		return nil, fmt.Errorf("%w: geneset", ErrMissingColumn)
	}

	annotation := make(map[string][]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		gene := strings.TrimSpace(record[geneCol])
		set := strings.TrimSpace(record[setCol])
		if gene == "" || set == "" {
			continue
		}
		annotation[gene] = append(annotation[gene], set)
	}
	return annotation, nil
}

// ReadScores loads one method's score list. Required columns are
// "source", "target", "ligand", "receptor" and "score". Rows with a
// malformed entity or unparsable score are skipped and counted.
func ReadScores(path, sep, method string, ascending bool) (rankagg.ScoreList, ReadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return rankagg.ScoreList{}, ReadReport{}, fmt.Errorf("reading scores: %w", err)
	}
	defer f.Close()
	list, report, err := readScores(f, delimiterFor(path), sep, method, ascending)
	if err != nil {
		return rankagg.ScoreList{}, report, fmt.Errorf("reading scores %s: %w", path, err)
	}
	return list, report, nil
}

func readScores(r io.Reader, comma rune, sep, method string, ascending bool) (rankagg.ScoreList, ReadReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := readHeader(reader)
	if err != nil {
		return rankagg.ScoreList{}, ReadReport{}, err
	}
	cols := make(map[string]int, 5)
	for _, name := range []string{"source", "target", "ligand", "receptor", "score"} {
		idx, ok := header[name]
		if !ok {
			return rankagg.ScoreList{}, ReadReport{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[name] = idx
	}

	list := rankagg.ScoreList{Method: method, Ascending: ascending}
	var report ReadReport
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rankagg.ScoreList{}, report, fmt.Errorf("reading record: %w", err)
		}
		report.Rows++
		ligand, err := resource.ParseEntity(record[cols["ligand"]], sep)
		if err != nil {
			report.Malformed++
			continue
		}
		receptor, err := resource.ParseEntity(record[cols["receptor"]], sep)
		if err != nil {
			report.Malformed++
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[cols["score"]]), 64)
		if err != nil {
			report.Malformed++
			continue
		}
		list.Entries = append(list.Entries, rankagg.Entry{
			Source:   strings.TrimSpace(record[cols["source"]]),
			Target:   strings.TrimSpace(record[cols["target"]]),
			Ligand:   ligand,
			Receptor: receptor,
			Score:    score,
		})
	}
	return list, report, nil
}

func readHeader(reader *csv.Reader) (map[string]int, error) {
	record, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	header := make(map[string]int, len(record))
	for i, name := range record {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header, nil
}
