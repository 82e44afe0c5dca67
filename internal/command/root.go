// Package command implements dispatchctl, the operator CLI for routing.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
)

const AppName = "dispatchctl"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

// Routing is the part of the routing service the CLI drives.
type Routing interface {
	AutoAssign(ctx context.Context, questionID int64, trigger queue.Trigger) routing.Result
	ProcessPending(ctx context.Context, trigger queue.Trigger) routing.BatchResult
	FindStale(ctx context.Context, hours int) ([]routing.StaleQuestion, error)
	Stats(ctx context.Context) (*model.RoutingStats, error)
}

// Opener connects to the backing stores. The returned func releases them.
type Opener func(ctx context.Context) (Routing, func(), error)

func NewRootCmd(version string, open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "dispatchctl - operate question routing",
		Long:          "dispatchctl runs assignment decisions, batch sweeps and routing reports against the dispatch database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewAssignCmd(open),
		NewProcessPendingCmd(open),
		NewStaleCmd(open),
		NewStatsCmd(open),
	)

	return cmd
}

// Execute runs dispatchctl and prints errors the commands did not report
// themselves, such as argument validation failures.
func Execute(ctx context.Context, open Opener) error {
	cmd := NewRootCmd(Version, open)
	err := cmd.ExecuteContext(ctx)
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
	}
	return err
}
