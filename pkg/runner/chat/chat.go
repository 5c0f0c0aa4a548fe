// Package chat reads and writes the conversation attached to a ticket.
package chat

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// Chat appends Message to the ticket conversation as the logged in user,
// or just shows the conversation when Message is empty.
type Chat struct {
	ID      int64
	Message string

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Chat) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not chat, no helpdesk")
	}

	var (
		t   *ticket.Ticket
		err error
	)
	if n.Message == "" {
		t, err = n.Helpdesk.TicketByID(ctx, n.ID)
	} else {
		s, serr := n.Helpdesk.Session(ctx)
		if serr != nil {
			return serr
		}
		if s == nil {
			return errors.New("log in to chat")
		}
		role := ticket.RoleClient
		if s.Role == account.RoleAgent {
			role = ticket.RoleAgent
		}
		t, err = n.Helpdesk.AddChatMessage(ctx, n.ID, s.Name(), role, n.Message)
	}
	if err != nil {
		return err
	}

	if n.JSON {
		return printers.JSON(n.Out, t.ChatMessages)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Ticket(t)
	return nil
}
