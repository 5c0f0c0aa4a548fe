// Package report prints workload metrics.
package report

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
)

// Metrics prints per-agent workload, or the status breakdown of one
// client when ClientEmail is set.
type Metrics struct {
	ClientEmail string
	// Month, when set, adds a submission calendar for that month.
	Month *time.Time

	Helpdesk *app.Service
	Out      io.Writer
	JSON     bool
}

func (n *Metrics) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not report, no helpdesk")
	}
	pp := printers.PrettyPrint{Out: n.Out}

	if n.ClientEmail != "" {
		c, err := n.Helpdesk.ClientMetrics(ctx, n.ClientEmail)
		if err != nil {
			return err
		}
		if n.JSON {
			return printers.JSON(n.Out, c)
		}
		pp.NewLine()
		pp.ClientCounts(n.ClientEmail, c)
		return nil
	}

	ms, err := n.Helpdesk.AgentMetrics(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, ms)
	}
	pp.NewLine()
	pp.Title("Agent performance")
	pp.AgentMetrics(ms)

	if n.Month != nil {
		all, err := n.Helpdesk.AllTickets(ctx)
		if err != nil {
			return err
		}
		pp.Calendar(*n.Month, all...)
	}
	return nil
}
