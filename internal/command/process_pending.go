package command

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"askhub.app/dispatch/internal/http/dto"
	"askhub.app/dispatch/internal/queue"
)

// NewProcessPendingCmd creates the process-pending command.
func NewProcessPendingCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-pending",
		Short: "Run auto-assignment over every pending question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getContext(cmd, open)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			batch := ctx.Routing.ProcessPending(ctx.Ctx, queue.TriggerCLI)

			if ctx.JSONMode {
				if err := writeJSON(cmd, dto.ToBatchResponse(batch)); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, batch.Message)
				if len(batch.Results) > 0 {
					tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "QUESTION\tPRIORITY\tRESULT\tMODERATOR")
					for _, item := range batch.Results {
						moderator := "-"
						if item.Result.Moderator != nil {
							moderator = item.Result.Moderator.Name
						}
						status := "assigned"
						if !item.Result.Success {
							status = string(item.Result.Reason)
						}
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.QuestionID, item.Priority, status, moderator)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}
			}

			if !batch.Success {
				return writeCommandError(cmd, errors.New(batch.Message))
			}
			return nil
		},
	}

	return cmd
}
