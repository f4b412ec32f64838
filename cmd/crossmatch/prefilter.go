package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/prefilter"
	"github.com/slipstream/crossmatch/internal/searchee"
)

func newPrefilterCmd(root *rootOptions) *cobra.Command {
	var (
		file    string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "prefilter",
		Short: "Show which searchees in a batch file would be searched",
		Long: `Runs an admission pass over a YAML or JSON batch of searchees against
the enabled indexers and recorded search history. Nothing is searched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if file == "" {
				file = a.cfg.Scheduler.SearcheeFile
			}
			if file == "" {
				return errors.New("no searchee file given; use --file or scheduler.searchee_file")
			}

			list, err := searchee.NewFileSource(file).Searchees(cmd.Context())
			if err != nil {
				return err
			}

			var sink logger.Sink = logger.NewSink(a.log.WithComponent("prefilter").Logger)
			if verbose {
				sink = &printSink{cmd: cmd}
			}

			pipeline := prefilter.NewPipeline(prefilter.OptionsFromConfig(a.cfg.Prefilter, sink),
				a.services.Indexers, a.services.History, sink)
			result, err := pipeline.Admit(cmd.Context(), list)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "searchee batch file (defaults to scheduler.searchee_file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the reason for every rejection")
	return cmd
}

func printResult(cmd *cobra.Command, result *prefilter.Result) {
	cmd.Printf("%d of %d searchees selected for searching\n", len(result.Eligible), result.Total)
	for _, s := range result.Eligible {
		cmd.Printf("  %s\n", s.Name)
	}

	reasons := make([]string, 0, len(result.Rejected))
	for r := range result.Rejected {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		cmd.Printf("rejected %-22s %d\n", r, result.Rejected[prefilter.Reason(r)])
	}
}

// printSink writes every diagnostic to the command output.
type printSink struct {
	cmd *cobra.Command
}

func (p *printSink) Record(_ zerolog.Level, label logger.Label, message string) {
	p.cmd.Printf("[%s] %s\n", label, message)
}
