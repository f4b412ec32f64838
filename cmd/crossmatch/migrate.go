package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/database"
	"github.com/slipstream/crossmatch/internal/logger"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, root, statusOnly)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only print the state of every migration")
	return cmd
}

func runMigrate(cmd *cobra.Command, root *rootOptions, statusOnly bool) error {
	ctx := cmd.Context()

	cfg, err := config.Load(root.configPath)
	if err != nil {
		return err
	}
	if root.dbPath != "" {
		cfg.Database.Path = root.dbPath
	}

	log := logger.New(logger.Config{Level: firstNonEmpty(root.logLevel, cfg.Logging.Level), Format: cfg.Logging.Format})
	defer log.Close()

	db, err := database.New(cfg.Database.Path, log.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if !statusOnly {
		report, err := db.Migrate(ctx)
		if err != nil {
			if report != nil && len(report.Applied) > 0 {
				cmd.Printf("applied before failure: %v\n", report.Applied)
			}
			return err
		}
		if len(report.Applied) == 0 {
			cmd.Printf("schema up to date at version %d\n", report.Version)
		} else {
			cmd.Printf("applied %v, now at version %d\n", report.Applied, report.Version)
		}
	}

	statuses, err := db.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
			if s.AppliedAt != nil {
				state += " " + s.AppliedAt.Format(time.RFC3339)
			}
		}
		cmd.Printf("%3d  %-16s %s\n", s.Version, s.Name, state)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
