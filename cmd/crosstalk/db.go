package main

import (
	"context"
	"fmt"

	"crosstalk/internal/config"
	"crosstalk/internal/store"
	"crosstalk/internal/store/postgres"
	"crosstalk/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.New(ctx, cfg.Database.DSN)
	case "postgres":
		return postgres.New(ctx, cfg.Database.DSN)
	case "":
		return nil, fmt.Errorf("no database configured")
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}
