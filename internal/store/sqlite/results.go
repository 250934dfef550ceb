package sqlite

import (
	"context"
	"fmt"

	"crosstalk/internal/enrich"
	"crosstalk/internal/rankagg"
	"crosstalk/internal/store"
)

// SaveAggregate replaces the named run's consensus ranking.
func (c *Client) SaveAggregate(ctx context.Context, run string, result rankagg.Result) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM aggregates WHERE run = ?`, run); err != nil {
		return fmt.Errorf("clearing aggregate run %s: %w", run, err)
	}

	insert := `
	INSERT INTO aggregates (run, position, source, target, ligand, receptor, consensus, method_ranks)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, row := range result.Rows {
		ligand, err := store.EncodeEntity(row.Ligand)
		if err != nil {
			return err
		}
		receptor, err := store.EncodeEntity(row.Receptor)
		if err != nil {
			return err
		}
		ranks, err := store.EncodeStringMap(row.MethodRanks)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert, run, i, row.Source, row.Target, ligand, receptor, row.Consensus, ranks); err != nil {
			return fmt.Errorf("inserting aggregate row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing aggregate run %s: %w", run, err)
	}
	return nil
}

// TopAggregate returns the run's strongest consensus interactions.
// limit <= 0 returns all of them.
func (c *Client) TopAggregate(ctx context.Context, run string, limit int) ([]rankagg.ResultRow, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT source, target, ligand, receptor, consensus, method_ranks
	FROM aggregates
	WHERE run = ?
	ORDER BY position
	LIMIT ?
	`
	rows, err := c.db.QueryContext(ctx, query, run, limit)
	if err != nil {
		return nil, fmt.Errorf("querying aggregate run %s: %w", run, err)
	}
	defer rows.Close()

	var out []rankagg.ResultRow
	for rows.Next() {
		var row rankagg.ResultRow
		var ligand, receptor, ranks string
		if err := rows.Scan(&row.Source, &row.Target, &ligand, &receptor, &row.Consensus, &ranks); err != nil {
			return nil, fmt.Errorf("scanning aggregate row: %w", err)
		}
		if row.Ligand, err = store.DecodeEntity(ligand); err != nil {
			return nil, err
		}
		if row.Receptor, err = store.DecodeEntity(receptor); err != nil {
			return nil, err
		}
		if row.MethodRanks, err = store.DecodeStringMap[float64](ranks); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aggregate rows: %w", err)
	}
	return out, nil
}

// SaveEnrichment replaces the named run's enrichment results.
func (c *Client) SaveEnrichment(ctx context.Context, run string, results []enrich.Result) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrichments WHERE run = ?`, run); err != nil {
		return fmt.Errorf("clearing enrichment run %s: %w", run, err)
	}

	insert := `
	INSERT INTO enrichments (run, grp, geneset, hits, sample, set_size, universe, p_value, adj_p_value)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, r := range results {
		if _, err := tx.ExecContext(ctx, insert, run, r.Group, r.GeneSet, r.Hits, r.Sample, r.SetSize, r.Universe, r.PValue, r.AdjPValue); err != nil {
			return fmt.Errorf("inserting enrichment %s/%s: %w", r.Group, r.GeneSet, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing enrichment run %s: %w", run, err)
	}
	return nil
}

// ListEnrichment returns a run's enrichment results sorted by
// adjusted p-value, optionally filtered by group and significance
// cutoff. maxAdjP <= 0 means no cutoff.
func (c *Client) ListEnrichment(ctx context.Context, run, group string, maxAdjP float64) ([]enrich.Result, error) {
	if maxAdjP <= 0 {
		maxAdjP = 1
	}
	query := `
	SELECT grp, geneset, hits, sample, set_size, universe, p_value, adj_p_value
	FROM enrichments
	WHERE run = ?
	  AND (? = '' OR grp = ?)
	  AND adj_p_value <= ?
	ORDER BY adj_p_value, p_value, grp, geneset
	`
	rows, err := c.db.QueryContext(ctx, query, run, group, group, maxAdjP)
	if err != nil {
		return nil, fmt.Errorf("querying enrichment run %s: %w", run, err)
	}
	defer rows.Close()

	var out []enrich.Result
	for rows.Next() {
		var r enrich.Result
		if err := rows.Scan(&r.Group, &r.GeneSet, &r.Hits, &r.Sample, &r.SetSize, &r.Universe, &r.PValue, &r.AdjPValue); err != nil {
			return nil, fmt.Errorf("scanning enrichment row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrichment rows: %w", err)
	}
	return out, nil
}

// ListRuns summarises every saved run.
func (c *Client) ListRuns(ctx context.Context) ([]store.RunSummary, error) {
	query := `
	SELECT run,
	       (SELECT COUNT(*) FROM aggregates a WHERE a.run = runs.run) AS interactions,
	       (SELECT COUNT(*) FROM enrichments e WHERE e.run = runs.run) AS enrichments
	FROM (
		SELECT run FROM aggregates
		UNION
		SELECT run FROM enrichments
	) AS runs
	ORDER BY run
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var s store.RunSummary
		if err := rows.Scan(&s.Name, &s.Interactions, &s.Enrichments); err != nil {
			return nil, fmt.Errorf("scanning run summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run summaries: %w", err)
	}
	return out, nil
}
