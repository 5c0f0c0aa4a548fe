package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where the helpdesk is stored and what it holds.",
		Example: `
helpdesk info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			b, err := loadBackend(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := info.Info{
				Config:   b.Config,
				Helpdesk: b.Helpdesk,
				Out:      outOf(cmd),
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}
