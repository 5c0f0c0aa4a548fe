package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/commands/options"
	"tableflip.dev/helpdesk/pkg/runner/export"
)

func addExport(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	file := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tickets as CSV.",
		Example: `
helpdesk export > tickets.csv
helpdesk export --status resolved --file resolved.csv
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := export.Export{Filter: f, File: file, Helpdesk: h, Out: cmd.OutOrStdout()}
			return oo.HandleError(s.Do(ctx))
		},
	}

	options.AddFilterArgs(cmd, fo)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout.")

	topLevel.AddCommand(cmd)
}
