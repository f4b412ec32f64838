package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/slipstream/crossmatch/internal/indexer"
)

func newRecordCmd(root *rootOptions) *cobra.Command {
	var (
		indexerIDs []int64
		at         string
	)

	cmd := &cobra.Command{
		Use:   "record <name>",
		Short: "Record that a searchee was searched",
		Long: `Stores a completed search of <name>. Without --indexer the search is
recorded against every currently enabled indexer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				when = parsed
			}

			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ids := indexerIDs
			if len(ids) == 0 {
				enabled, err := a.services.Indexers.ListEnabled(cmd.Context())
				if err != nil {
					return err
				}
				ids = indexer.IDs(enabled)
			}

			if err := a.services.History.RecordSearch(cmd.Context(), args[0], ids, when); err != nil {
				return err
			}
			cmd.Printf("recorded search of %s on %d indexers\n", args[0], len(ids))
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&indexerIDs, "indexer", nil, "indexer id (repeatable; defaults to all enabled)")
	cmd.Flags().StringVar(&at, "at", "", "search time in RFC 3339 (defaults to now)")
	return cmd
}
