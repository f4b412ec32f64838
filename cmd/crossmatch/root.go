package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipstream/crossmatch/internal/api"
	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/database"
	"github.com/slipstream/crossmatch/internal/logger"
)

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

// app is the opened runtime shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	services *api.Services
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "crossmatch",
		Short:         "Select searchees for cross-seed searching",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newPrefilterCmd(opts),
		newIndexerCmd(opts),
		newRecordCmd(opts),
	)
	return cmd
}

// open loads configuration, opens the database and applies pending
// migrations. Every command works on a fully migrated store.
func (o *rootOptions) open(ctx context.Context) (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	a := &app{cfg: cfg}
	a.log = logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})

	if err := a.openDB(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openDB(ctx context.Context) error {
	db, err := database.New(a.cfg.Database.Path, a.log.Logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db

	report, err := db.Migrate(ctx)
	if err != nil {
		return err
	}
	if len(report.Applied) > 0 {
		a.log.Info().Strs("applied", report.Applied).Int64("version", report.Version).Msg("database migrated")
	}

	a.services = api.NewServices(db.Conn(), a.log.Logger)
	return nil
}
