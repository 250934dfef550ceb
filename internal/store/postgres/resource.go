package postgres

import (
	"context"
	"fmt"

	"crosstalk/internal/resource"
	"crosstalk/internal/store"
)

// SaveResource replaces the named resource with the given rows.
func (c *Client) SaveResource(ctx context.Context, name string, rows []resource.Row) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM resources WHERE name = $1`, name); err != nil {
		return fmt.Errorf("clearing resource %s: %w", name, err)
	}

	insert := `
INSERT INTO resources (name, position, ligand, receptor, ligand_complex, receptor_complex, meta)
VALUES ($1, $2, $3::jsonb, $4::jsonb, NULLIF($5, '')::jsonb, NULLIF($6, '')::jsonb, $7::jsonb)
`
	for i, row := range rows {
		ligand, err := store.EncodeEntity(row.Ligand)
		if err != nil {
			return err
		}
		receptor, err := store.EncodeEntity(row.Receptor)
		if err != nil {
			return err
		}
		ligandComplex, err := store.EncodeEntity(row.LigandComplex)
		if err != nil {
			return err
		}
		receptorComplex, err := store.EncodeEntity(row.ReceptorComplex)
		if err != nil {
			return err
		}
		meta, err := store.EncodeStringMap(row.Meta)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insert, name, i, ligand, receptor, ligandComplex, receptorComplex, meta); err != nil {
			return fmt.Errorf("inserting resource row %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing resource %s: %w", name, err)
	}
	return nil
}

// LoadResource returns the named resource in its saved row order.
func (c *Client) LoadResource(ctx context.Context, name string) ([]resource.Row, error) {
	query := `
SELECT ligand::text, receptor::text, COALESCE(ligand_complex::text, ''), COALESCE(receptor_complex::text, ''), meta::text
FROM resources
WHERE name = $1
ORDER BY position
`
	rows, err := c.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("loading resource %s: %w", name, err)
	}
	defer rows.Close()

	var out []resource.Row
	for rows.Next() {
		var ligand, receptor, ligandComplex, receptorComplex, meta string
		if err := rows.Scan(&ligand, &receptor, &ligandComplex, &receptorComplex, &meta); err != nil {
			return nil, fmt.Errorf("scanning resource row: %w", err)
		}
		row, err := decodeRow(ligand, receptor, ligandComplex, receptorComplex, meta)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resource rows: %w", err)
	}
	return out, nil
}

func decodeRow(ligand, receptor, ligandComplex, receptorComplex, meta string) (resource.Row, error) {
	var row resource.Row
	var err error
	if row.Ligand, err = store.DecodeEntity(ligand); err != nil {
		return row, err
	}
	if row.Receptor, err = store.DecodeEntity(receptor); err != nil {
		return row, err
	}
	if row.LigandComplex, err = store.DecodeEntity(ligandComplex); err != nil {
		return row, err
	}
	if row.ReceptorComplex, err = store.DecodeEntity(receptorComplex); err != nil {
		return row, err
	}
	if row.Meta, err = store.DecodeStringMap[string](meta); err != nil {
		return row, err
	}
	return row, nil
}
