// Package status moves tickets through their lifecycle.
package status

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/ticket"
)

type Status struct {
	ID     int64
	Status ticket.Status

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Status) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not change status, no helpdesk")
	}
	t, err := n.Helpdesk.ChangeStatus(ctx, n.ID, n.Status)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, t)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeSuccess, fmt.Sprintf("Ticket %d is now %s.", t.ID, t.Status.Label()))
	return nil
}
