package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KilimcininKorOglu/kimlik/internal/config"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
	"github.com/KilimcininKorOglu/kimlik/internal/store/memory"
	"github.com/KilimcininKorOglu/kimlik/internal/store/nuts"
	"github.com/KilimcininKorOglu/kimlik/internal/store/postgres"
	"github.com/KilimcininKorOglu/kimlik/internal/store/sqlite"
)

const sqliteFile = "kimlik.db"

// openStore opens the user store selected by cfg.Storage.Driver.
func openStore(ctx context.Context, cfg *config.StorageConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverNutsDB:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return nuts.Open(cfg.DataDir)
	case config.DriverSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return sqlite.Open(filepath.Join(cfg.DataDir, sqliteFile))
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, cfg.Driver)
	}
}
