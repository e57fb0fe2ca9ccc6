package cmd

import (
	"errors"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toffan/running/internal/garmin"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show what was saved and scheduled, latest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.ledger(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("ledger is disabled")
			}
			events, err := store.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printf(tw, "WHEN\tACTION\tWORKOUT\tID\tDAY\tRUN\n")
			for _, e := range events {
				day := "-"
				if e.Day != nil {
					day = e.Day.Format(garmin.DateLayout)
				}
				printf(tw, "%s\t%s\t%s\t%d\t%s\t%.8s\n",
					e.At.Local().Format("2006-01-02 15:04"), e.Kind, e.Workout, e.RemoteID, day, e.RunID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events, 0 for all")
	return cmd
}
