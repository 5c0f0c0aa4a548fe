package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/runner/board"
)

func addBoard(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse and work tickets in a full screen view.",
		Example: `
helpdesk board
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return oo.HandleError(errors.New("board needs a terminal, try ticket list"))
			}
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(board.Run(ctx, h))
		},
	}

	topLevel.AddCommand(cmd)
}
