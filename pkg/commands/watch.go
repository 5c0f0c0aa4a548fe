package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/commands/options"
	"tableflip.dev/helpdesk/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "List tickets and list them again whenever the store changes.",
		Example: `
helpdesk watch --unassigned
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b, err := loadBackend(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := watch.Watch{
				Filter:      f,
				Helpdesk:    b.Helpdesk,
				Persistence: b.Persistence,
				Logger:      b.Logger,
				Out:         outOf(cmd),
				JSON:        oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	options.AddFilterArgs(cmd, fo)

	topLevel.AddCommand(cmd)
}
