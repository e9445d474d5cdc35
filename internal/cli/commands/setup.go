package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tapdeck-labs/tapdeck/internal/config"
	"github.com/tapdeck-labs/tapdeck/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  *state.SQLiteStore
}

type depsKey struct{}

type deps struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WithDeps stashes the loaded configuration and logger in the command
// context. Called by the root command before any subcommand runs.
func WithDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, depsKey{}, deps{cfg: cfg, logger: logger})
}

// NewCommandContext opens the workspace store from the configured
// database path. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	d, ok := cmd.Context().Value(depsKey{}).(deps)
	if !ok {
		return nil, nil, fmt.Errorf("configuration not loaded")
	}

	// Ensure the database directory exists
	if dir := filepath.Dir(d.cfg.Database); dir != "." && dir != "" && d.cfg.Database != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(d.cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{Cfg: d.cfg, Logger: d.logger, Store: store}, cleanup, nil
}
