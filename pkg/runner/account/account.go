// Package account registers, logs in and lists helpdesk users.
package account

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
)

var errNoHelpdesk = errors.New("no helpdesk")

// Register creates a client or agent account and logs it in.
type Register struct {
	Role   account.Role
	Name   string
	Email  string
	Phone  string
	Skills []string

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Register) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errNoHelpdesk
	}
	var (
		v   any
		err error
	)
	switch n.Role {
	case account.RoleAgent:
		v, err = n.Helpdesk.RegisterAgent(ctx, n.Name, n.Email, n.Phone, n.Skills)
	default:
		v, err = n.Helpdesk.RegisterClient(ctx, n.Name, n.Email, n.Phone)
	}
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, v)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeSuccess, fmt.Sprintf("Registered %s, welcome %s.", n.Email, n.Name))
	return nil
}

// Login starts a session for a registered email.
type Login struct {
	Role  account.Role
	Email string

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Login) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errNoHelpdesk
	}
	var err error
	switch n.Role {
	case account.RoleAgent:
		_, err = n.Helpdesk.LoginAgent(ctx, n.Email)
	default:
		_, err = n.Helpdesk.LoginClient(ctx, n.Email)
	}
	if err != nil {
		return err
	}
	return (&WhoAmI{Helpdesk: n.Helpdesk, Out: n.Out, JSON: n.JSON}).Do(ctx)
}

// Logout ends the current session.
type Logout struct {
	Helpdesk *app.Service
	Out      io.Writer
}

func (n *Logout) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errNoHelpdesk
	}
	if err := n.Helpdesk.Logout(ctx); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeInfo, "Logged out.")
	return nil
}

// WhoAmI prints the current session.
type WhoAmI struct {
	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *WhoAmI) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errNoHelpdesk
	}
	s, err := n.Helpdesk.Session(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, s)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Session(s)
	return nil
}

// Agents prints the agent roster.
type Agents struct {
	ActiveOnly bool

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Agents) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errNoHelpdesk
	}
	list := n.Helpdesk.Agents
	if n.ActiveOnly {
		list = n.Helpdesk.ActiveAgents
	}
	agents, err := list(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, agents)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Title("Agents")
	pp.Agents(agents...)
	return nil
}

// Activate toggles whether an agent takes assignments.
type Activate struct {
	AgentID string
	Active  bool

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Activate) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errNoHelpdesk
	}
	a, err := n.Helpdesk.SetAgentActive(ctx, n.AgentID, n.Active)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, a)
	}
	state := "inactive"
	if a.Active {
		state = "active"
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeSuccess, fmt.Sprintf("%s is now %s.", a.Name, state))
	return nil
}
