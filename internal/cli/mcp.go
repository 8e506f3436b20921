package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	mcpserver "quicknotes/internal/mcp"
)

func newMCPCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve notes to AI agents over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			srv := mcpserver.New(a.Notes(), e.logger)
			a.Events().Add(srv)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return a.Run(gctx)
			})
			g.Go(func() error {
				// The client closing stdin ends the session.
				defer cancel()
				err := srv.Serve(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
				if gctx.Err() != nil {
					return nil
				}
				return err
			})
			return g.Wait()
		},
	}
}
