package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"askhub.app/dispatch/internal/http/dto"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
)

// NewAssignCmd creates the assign command.
func NewAssignCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <question-id>",
		Short: "Auto-assign a pending question to the best moderator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return writeCommandError(cmd, fmt.Errorf("invalid question id %q", args[0]))
			}

			ctx, err := getContext(cmd, open)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			result := ctx.Routing.AutoAssign(ctx.Ctx, questionID, queue.TriggerCLI)

			if ctx.JSONMode {
				if err := writeJSON(cmd, dto.ToAssignmentResponse(result)); err != nil {
					return err
				}
			} else {
				printResult(cmd, result)
			}

			if !result.Success {
				// printResult or the JSON body already carries the message.
				return reportedError{fmt.Errorf("%w: %s", errAssignmentFailed, result.Reason)}
			}
			return nil
		},
	}

	return cmd
}

func printResult(cmd *cobra.Command, r routing.Result) {
	out := cmd.OutOrStdout()
	if !r.Success {
		fmt.Fprintf(out, "question %d: %s (%s)\n", r.QuestionID, r.Message, r.Reason)
		return
	}

	fmt.Fprintf(out, "question %d: %s\n", r.QuestionID, r.Message)
	if r.Moderator != nil {
		fmt.Fprintf(out, "  moderator:   %s <%s> (%d)\n", r.Moderator.Name, r.Moderator.Email, r.Moderator.ID)
		if len(r.Moderator.Skills) > 0 {
			fmt.Fprintf(out, "  skills:      %s\n", strings.Join(r.Moderator.Skills, ", "))
		}
	}
	fmt.Fprintf(out, "  score:       %.3f\n", r.Score)
	fmt.Fprintf(out, "  skill match: %.0f%%\n", r.SkillMatch*100)
	fmt.Fprintf(out, "  workload:    %d\n", r.Workload)
	if r.Fallback {
		fmt.Fprintln(out, "  (no moderator matched the question's skills)")
	}
}
