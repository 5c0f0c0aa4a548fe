package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/app"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as a JSON object when JSON output is on, so
// scripts always get parseable output. The error is then swallowed.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
			"kind":  ErrorKind(err),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}

// ErrorKind classifies err as not_found, duplicate, invalid, inactive or
// internal.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, app.ErrTicketNotFound),
		errors.Is(err, app.ErrClientNotFound),
		errors.Is(err, app.ErrAgentNotFound):
		return "not_found"
	case errors.Is(err, app.ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, app.ErrInvalidStatus),
		errors.Is(err, app.ErrInvalidPriority),
		errors.Is(err, app.ErrInvalidAccount),
		errors.Is(err, app.ErrInvalidTicket),
		errors.Is(err, app.ErrEmptyMessage),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrConfirmationRequired):
		return "invalid"
	case errors.Is(err, app.ErrAgentInactive):
		return "inactive"
	}
	return "internal"
}
