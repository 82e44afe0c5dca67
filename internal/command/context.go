package command

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

// runContext is what every subcommand needs once the stores are open.
type runContext struct {
	Ctx      context.Context
	Routing  Routing
	JSONMode bool
	close    func()
}

func (c *runContext) Close() {
	if c.close != nil {
		c.close()
	}
}

func getContext(cmd *cobra.Command, open Opener) (*runContext, error) {
	jsonMode, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, closeFn, err := open(ctx)
	if err != nil {
		return nil, err
	}

	return &runContext{Ctx: ctx, Routing: r, JSONMode: jsonMode, close: closeFn}, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
