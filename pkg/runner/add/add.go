// Package add submits new tickets from the command line.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/ticket"
)

type Add struct {
	Subject     string
	Description string
	Priority    ticket.Priority
	// ClientEmail and ClientName default to the logged in session.
	ClientEmail string
	ClientName  string

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Add) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not add, no helpdesk")
	}

	if n.ClientEmail == "" {
		s, err := n.Helpdesk.Session(ctx)
		if err != nil {
			return err
		}
		if s != nil {
			n.ClientEmail = s.Email()
			if n.ClientName == "" {
				n.ClientName = s.Name()
			}
		}
	}

	t, err := n.Helpdesk.CreateTicket(ctx, n.Subject, n.Description, n.Priority, n.ClientEmail, n.ClientName)
	if err != nil {
		return err
	}

	if n.JSON {
		return printers.JSON(n.Out, t)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeSuccess, "Ticket created.")
	pp.NewLine()
	if n.ClientEmail == "" {
		pp.Tickets(t)
		return nil
	}
	mine, err := n.Helpdesk.ClientTickets(ctx, n.ClientEmail)
	if err != nil {
		return err
	}
	pp.TitleWithCount(n.ClientEmail, len(mine))
	pp.Tickets(mine...)
	return nil
}
