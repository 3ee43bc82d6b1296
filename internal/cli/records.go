package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/display"
)

type RecordsOptions struct {
	Clear bool
}

func NewRecordsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordsOptions{}

	cmd := &cobra.Command{
		Use:          "records",
		Short:        "Show the best time on every board played",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "forget every best time")

	return cmd
}

func runRecords(cmd *cobra.Command, rootOpts *RootOptions, opts *RecordsOptions) error {
	out := cmd.OutOrStdout()

	records, closeStore, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := records.Count()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "no records yet")
		return nil
	}

	keys, err := records.Keys()
	if err != nil {
		return err
	}

	if opts.Clear {
		for _, key := range keys {
			if err := records.Delete(key); err != nil {
				return err
			}
		}
		rootOpts.logger().WithField("count", len(keys)).Info("records cleared")
		fmt.Fprintf(out, "cleared %d records\n", len(keys))
		return nil
	}

	for _, key := range keys {
		var best BestTime
		if err := records.Get(key, &best); err != nil {
			return fmt.Errorf("unable to read record %s: %w", key, err)
		}
		fmt.Fprintf(out, "%-10s best time: %ss (game %d)\n", key, display.Timer(best.Seconds), best.Game)
	}
	return nil
}
