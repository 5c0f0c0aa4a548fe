// Package get lists and shows tickets.
package get

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
)

// Get lists the tickets matching Filter.
type Get struct {
	Filter app.Filter
	// Mine narrows the listing to the logged in client or agent.
	Mine bool
	// Month, when set, adds a view of submission days in that month.
	Month *time.Time

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Get) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not get, no helpdesk")
	}

	title := "Tickets"
	if n.Mine {
		s, err := n.Helpdesk.Session(ctx)
		if err != nil {
			return err
		}
		if s == nil {
			return errors.New("not logged in")
		}
		if s.Agent != nil {
			n.Filter.AgentID = s.Agent.ID
		} else {
			n.Filter.ClientEmail = s.Email()
		}
		title = s.Name()
	}

	tickets, err := n.Helpdesk.Tickets(ctx, n.Filter)
	if err != nil {
		return err
	}

	if n.JSON {
		return printers.JSON(n.Out, tickets)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount(title, len(tickets))
	pp.Tickets(tickets...)
	if n.Month != nil {
		pp.Calendar(*n.Month, tickets...)
	}
	return nil
}

// Show prints one ticket in full.
type Show struct {
	ID int64

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Show) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not show, no helpdesk")
	}
	t, err := n.Helpdesk.TicketByID(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, t)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Ticket(t)
	return nil
}
