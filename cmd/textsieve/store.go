package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/textsieve/textsieve/internal/storage"
)

// databasePath resolves the configured database path, falling back to
// $HOME/.local/share/textsieve/textsieve.db.
func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "textsieve", "textsieve.db"), nil
}

// openStore opens the SQLite store and applies pending migrations.
func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}
