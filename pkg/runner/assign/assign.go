// Package assign hands tickets to agents.
package assign

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
)

type Assign struct {
	ID      int64
	AgentID string

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Assign) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not assign, no helpdesk")
	}
	t, err := n.Helpdesk.AssignAgent(ctx, n.ID, n.AgentID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, t)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeSuccess, fmt.Sprintf("Ticket %d assigned to %s.", t.ID, t.Assignment.AgentName()))
	return nil
}
