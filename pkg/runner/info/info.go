package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/store"
)

type Info struct {
	Config   store.Config
	Helpdesk *app.Service
	Out      io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("HELPDESK_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "HELPDESK_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "HELPDESK_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Config file"), orNone(store.ConfigFile(n.Config)))
	tbl.AddRow(bold.Sprint("Store path"), n.Config.BasePath())
	tbl.AddRow(bold.Sprint("Log level"), n.Config.LogLevel())

	if n.Helpdesk == nil {
		_, _ = fmt.Fprintln(out, tbl)
		return fmt.Errorf("failed to open the helpdesk store")
	}

	tickets, err := n.Helpdesk.AllTickets(ctx)
	if err != nil {
		return err
	}
	clients, err := n.Helpdesk.Clients(ctx)
	if err != nil {
		return err
	}
	agents, err := n.Helpdesk.Agents(ctx)
	if err != nil {
		return err
	}
	session, err := n.Helpdesk.Session(ctx)
	if err != nil {
		return err
	}

	tbl.AddRow(bold.Sprint("Tickets"), len(tickets))
	tbl.AddRow(bold.Sprint("Clients"), len(clients))
	tbl.AddRow(bold.Sprint("Agents"), len(agents))
	if session != nil {
		tbl.AddRow(bold.Sprint("Session"), fmt.Sprintf("%s %s <%s>", session.Role, session.Name(), session.Email()))
	} else {
		tbl.AddRow(bold.Sprint("Session"), "none")
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
