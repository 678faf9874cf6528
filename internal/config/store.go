package config

import (
	"context"
	"io/fs"
	"log/slog"

	"todo/internal/repository/sqlite"
)

// StoreOpener returns a function that opens the configured Record Store.
// Each call opens a new store; the caller owns and closes it.
func StoreOpener(cfg *Config, logger *slog.Logger) func(ctx context.Context) (sqlite.Store, error) {
	path := cfg.GetDatabasePath()
	opts := []sqlite.Option{
		sqlite.WithLogger(logger),
		sqlite.WithBusyTimeout(cfg.Database.BusyTimeout),
		sqlite.WithDirPermissions(fs.FileMode(cfg.Database.DirPermissions)),
	}

	return func(ctx context.Context) (sqlite.Store, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		store, err := sqlite.New(path, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
