// Package remove deletes tickets.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
)

type Remove struct {
	ID int64
	// Confirm is asked before deleting; nil deletes without asking.
	Confirm func(label string) (bool, error)

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not remove, no helpdesk")
	}
	t, err := n.Helpdesk.TicketByID(ctx, n.ID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.Confirm != nil {
		ok, err := n.Confirm(fmt.Sprintf("Delete ticket %d %q", t.ID, t.Subject))
		if err != nil {
			return err
		}
		if !ok {
			pp.Notice(printers.NoticeInfo, "Nothing deleted.")
			return nil
		}
	}
	if err := n.Helpdesk.DeleteTicket(ctx, n.ID); err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]any{"id": n.ID, "deleted": true})
	}
	pp.Notice(printers.NoticeSuccess, fmt.Sprintf("Ticket %d deleted.", n.ID))
	return nil
}
