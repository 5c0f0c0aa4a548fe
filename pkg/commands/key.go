package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the ticket statuses and priorities.",
		Example: `
helpdesk key
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{Out: outOf(cmd)}
			return oo.HandleError(k.Do(contextOf(cmd)))
		},
	}

	topLevel.AddCommand(cmd)
}
