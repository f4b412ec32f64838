package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/slipstream/crossmatch/internal/indexer"
)

func newIndexerCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexer",
		Short: "Manage the indexers searches are issued against",
	}
	cmd.AddCommand(
		newIndexerAddCmd(root),
		newIndexerListCmd(root),
		newIndexerToggleCmd(root, "enable", true),
		newIndexerToggleCmd(root, "disable", false),
		newIndexerRemoveCmd(root),
	)
	return cmd
}

func newIndexerAddCmd(root *rootOptions) *cobra.Command {
	var (
		name     string
		disabled bool
	)
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Register an indexer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			enabled := !disabled
			idx, err := a.services.Indexers.Create(cmd.Context(), indexer.CreateIndexerInput{
				Name:    name,
				URL:     args[0],
				Enabled: &enabled,
			})
			if err != nil {
				return err
			}
			cmd.Printf("added indexer %d (%s)\n", idx.ID, idx.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the url host)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "add the indexer disabled")
	return cmd
}

func newIndexerListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			indexers, err := a.services.Indexers.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(indexers) == 0 {
				cmd.Println("No indexers configured.")
				return nil
			}

			now := time.Now()
			for _, idx := range indexers {
				cmd.Printf("%4d  %-20s %-8s %s\n", idx.ID, idx.Name, indexerState(idx, now), idx.URL)
			}
			return nil
		},
	}
}

func indexerState(idx *indexer.Indexer, now time.Time) string {
	switch {
	case !idx.Enabled:
		return "disabled"
	case !idx.Available(now):
		return "waiting"
	default:
		return "enabled"
	}
}

func newIndexerToggleCmd(root *rootOptions, use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("%s an indexer", capitalize(use)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid indexer id %q", args[0])
			}

			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			idx, err := a.services.Indexers.SetEnabled(cmd.Context(), id, enabled)
			if err != nil {
				return err
			}
			cmd.Printf("indexer %d (%s) %sd\n", idx.ID, idx.Name, use)
			return nil
		},
	}
}

func newIndexerRemoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an indexer and its search history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid indexer id %q", args[0])
			}

			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.services.Indexers.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("removed indexer %d\n", id)
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
