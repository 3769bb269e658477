package main

import (
	"context"
	"fmt"

	"github.com/meghashyamc/filefind/config"
	"github.com/meghashyamc/filefind/db/kvdb"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/scan"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares. Dependencies are opened lazily so
// that commands like "command" never touch the database.
type app struct {
	env    string
	cfg    *config.Config
	logger logger.Logger
	kvdb   *kvdb.BoltDB
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "filefind",
		Short: "Find files and folders by name, type, size, date and content",
		Long: `filefind enumerates a directory tree once, caches the enumeration, and
filters it by name, glob pattern, extension, type, file group, size,
creation and modification date, and content.

A cached directory is never re-walked on its own. Use --refresh or
"filefind cache delete <path>" to pick up changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.env)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			a.logger = logger.New(cfg.GetLogLevel())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().StringVar(&a.env, "env", "", "config environment (default $ENV or local)")

	cmd.AddCommand(newSearchCommand(a))
	cmd.AddCommand(newCacheCommand(a))
	cmd.AddCommand(newTerminalCommand(a))
	cmd.AddCommand(newServeCommand(a))

	return cmd
}

func (a *app) openDB() (*kvdb.BoltDB, error) {
	if a.kvdb != nil {
		return a.kvdb, nil
	}
	db, err := kvdb.New(a.logger, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	a.kvdb = db
	return db, nil
}

// searchService builds a search service whose workers stop when ctx is done.
func (a *app) searchService(ctx context.Context) (*search.Service, error) {
	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	return search.New(ctx, a.logger, scan.New(a.logger, db), a.cfg, db), nil
}

func (a *app) close() error {
	if a.kvdb == nil {
		return nil
	}
	err := a.kvdb.Close()
	a.kvdb = nil
	return err
}
