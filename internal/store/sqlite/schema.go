package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS resources (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		name             TEXT NOT NULL,
		position         INTEGER NOT NULL,
		ligand           TEXT NOT NULL,
		receptor         TEXT NOT NULL,
		ligand_complex   TEXT,
		receptor_complex TEXT,
		meta             TEXT DEFAULT '{}',
		CONSTRAINT uq_resource_row UNIQUE (name, position)
	);

	CREATE TABLE IF NOT EXISTS aggregates (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		run          TEXT NOT NULL,
		position     INTEGER NOT NULL,
		source       TEXT NOT NULL,
		target       TEXT NOT NULL,
		ligand       TEXT NOT NULL,
		receptor     TEXT NOT NULL,
		consensus    REAL NOT NULL,
		method_ranks TEXT DEFAULT '{}',
		CONSTRAINT uq_aggregate_row UNIQUE (run, position)
	);

	CREATE TABLE IF NOT EXISTS enrichments (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run         TEXT NOT NULL,
		grp         TEXT NOT NULL,
		geneset     TEXT NOT NULL,
		hits        INTEGER NOT NULL,
		sample      INTEGER NOT NULL,
		set_size    INTEGER NOT NULL,
		universe    INTEGER NOT NULL,
		p_value     REAL NOT NULL,
		adj_p_value REAL NOT NULL,
		CONSTRAINT uq_enrichment_row UNIQUE (run, grp, geneset)
	);

	CREATE INDEX IF NOT EXISTS idx_resources_name ON resources (name);
	CREATE INDEX IF NOT EXISTS idx_aggregates_run ON aggregates (run);
	CREATE INDEX IF NOT EXISTS idx_aggregates_run_consensus ON aggregates (run, consensus);
	CREATE INDEX IF NOT EXISTS idx_enrichments_run ON enrichments (run);
	CREATE INDEX IF NOT EXISTS idx_enrichments_run_grp ON enrichments (run, grp);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
