package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS resources (
    id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name             TEXT NOT NULL,
    position         INTEGER NOT NULL,
    ligand           JSONB NOT NULL,
    receptor         JSONB NOT NULL,
    ligand_complex   JSONB,
    receptor_complex JSONB,
    meta             JSONB DEFAULT '{}',
    CONSTRAINT uq_resource_row UNIQUE (name, position)
);

CREATE TABLE IF NOT EXISTS aggregates (
    id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    run          TEXT NOT NULL,
    position     INTEGER NOT NULL,
    source       TEXT NOT NULL,
    target       TEXT NOT NULL,
    ligand       JSONB NOT NULL,
    receptor     JSONB NOT NULL,
    consensus    DOUBLE PRECISION NOT NULL,
    method_ranks JSONB DEFAULT '{}',
    CONSTRAINT uq_aggregate_row UNIQUE (run, position)
);

CREATE TABLE IF NOT EXISTS enrichments (
    id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    run         TEXT NOT NULL,
    grp         TEXT NOT NULL,
    geneset     TEXT NOT NULL,
    hits        INTEGER NOT NULL,
    sample      INTEGER NOT NULL,
    set_size    INTEGER NOT NULL,
    universe    INTEGER NOT NULL,
    p_value     DOUBLE PRECISION NOT NULL,
    adj_p_value DOUBLE PRECISION NOT NULL,
    CONSTRAINT uq_enrichment_row UNIQUE (run, grp, geneset)
);

CREATE INDEX IF NOT EXISTS idx_resources_name ON resources (name);
CREATE INDEX IF NOT EXISTS idx_aggregates_run ON aggregates (run);
CREATE INDEX IF NOT EXISTS idx_aggregates_run_consensus ON aggregates (run, consensus);
CREATE INDEX IF NOT EXISTS idx_enrichments_run ON enrichments (run);
CREATE INDEX IF NOT EXISTS idx_enrichments_run_grp ON enrichments (run, grp);
`

	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("executing DDL: %w", err)
	}
	return nil
}
