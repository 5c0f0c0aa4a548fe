// Package key provides CLI helpers to display the status and priority legend.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// Key prints the ticket statuses and priorities with their colours.
type Key struct {
	Out io.Writer
}

// Do renders the status and priority keys.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	bold := color.New(color.Bold)

	_, _ = fmt.Fprintln(out, "")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Status"), bold.Sprint("Value"), bold.Sprint("Meaning"))
	for _, s := range ticket.AllStatuses() {
		tbl.AddRow(printers.StatusColor(s).Sprint(s.Label()), string(s), statusMeaning[s])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out, "")

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Priority"), bold.Sprint("Value"))
	for _, p := range ticket.AllPriorities() {
		tbl.AddRow(printers.PriorityColor(p).Sprint(p.Label()), string(p))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

var statusMeaning = map[ticket.Status]string{
	ticket.StatusOpen:     "submitted, waiting for an agent",
	ticket.StatusProgress: "an agent is working on it",
	ticket.StatusResolved: "done",
}
