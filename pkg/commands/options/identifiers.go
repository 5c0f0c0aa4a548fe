package options

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var ErrInvalidID = errors.New("invalid ticket id")

// IDOptions
type IDOptions struct {
	ID int64
}

// TicketIDArg is a cobra.PositionalArgs that requires one ticket id as the
// first argument and keeps it in o.
func TicketIDArg(o *IDOptions, extra cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New("requires a ticket id")
		}
		id, err := ParseTicketID(args[0])
		if err != nil {
			return err
		}
		o.ID = id
		if extra != nil {
			return extra(cmd, args[1:])
		}
		if len(args) > 1 {
			return fmt.Errorf("unexpected arguments %q", args[1:])
		}
		return nil
	}
}

// ParseTicketID accepts the bare id or one prefixed with #.
func ParseTicketID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalidID, raw)
	}
	return id, nil
}
