package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"askhub.app/dispatch/internal/http/dto"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show question counts and moderator workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getContext(cmd, open)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			stats, err := ctx.Routing.Stats(ctx.Ctx)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, dto.ToStatsResponse(stats))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total %d  pending %d  assigned %d  answered %d  closed %d\n",
				stats.Total, stats.Pending, stats.Assigned, stats.Answered, stats.Closed)

			if len(stats.Moderators) == 0 {
				fmt.Fprintln(out, "No eligible moderators")
				return nil
			}

			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODERATOR\tNAME\tACTIVE\tTOTAL")
			for _, m := range stats.Moderators {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", m.ID, m.Name, m.Active, m.TotalAssigned)
			}
			return tw.Flush()
		},
	}

	return cmd
}
