package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"askhub.app/dispatch/internal/http/dto"
	"askhub.app/dispatch/internal/routing"
)

// NewStaleCmd creates the stale command.
func NewStaleCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stale",
		Short: "List assigned questions with no activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, _ := cmd.Flags().GetInt("hours")
			if hours < 0 {
				return writeCommandError(cmd, fmt.Errorf("--hours must not be negative"))
			}
			if hours > routing.MaxStaleHours {
				return writeCommandError(cmd, fmt.Errorf("--hours must be at most %d", routing.MaxStaleHours))
			}

			ctx, err := getContext(cmd, open)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			stale, err := ctx.Routing.FindStale(ctx.Ctx, hours)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd, dto.ToStaleListResponse(stale))
			}

			out := cmd.OutOrStdout()
			if len(stale) == 0 {
				fmt.Fprintln(out, "No stale questions")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "QUESTION\tSTATUS\tASSIGNED TO\tIDLE\tTITLE")
			for _, q := range stale {
				assignee := "-"
				if q.AssignedTo != nil {
					assignee = fmt.Sprintf("%d", *q.AssignedTo)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%dh\t%s\n", q.ID, q.Status, assignee, q.HoursSinceUpdate, q.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("hours", 0, "idle threshold in hours (0 uses ROUTING_STALE_HOURS)")

	return cmd
}
