package options

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrConfirmationRequired is returned when a destructive command can not
// prompt and --yes was not given.
var ErrConfirmationRequired = errors.New("confirmation required, pass --yes")

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Prompt for the input instead of reading flags.`)
}

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		`Do not ask for confirmation.`)
}
