package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the note list every time it changes",
		Long: `watch keeps running and reprints the list whenever a note is created,
edited or deleted, including changes made by other quicknotes processes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return a.Run(ctx)
			})
			g.Go(func() error {
				feed, err := a.Notes().ObserveAll(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for notes := range feed {
					mutedColor.Fprintf(out, "── %s ── %d note(s)\n", time.Now().Format("15:04:05"), len(notes))
					for _, n := range notes {
						printNoteLine(out, n)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
			return g.Wait()
		},
	}
}
