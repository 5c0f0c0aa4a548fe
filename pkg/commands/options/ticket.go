package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/ticket"
	"tableflip.dev/helpdesk/pkg/timeutil"
)

// TicketOptions captures the fields of a new ticket.
type TicketOptions struct {
	Subject     string
	Description string
	Priority    string
	ClientEmail string
	ClientName  string
}

func AddTicketArgs(cmd *cobra.Command, o *TicketOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Longer description of the issue.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", string(ticket.PriorityMedium),
		"Priority, one of low, medium or high.")
	cmd.Flags().StringVar(&o.ClientEmail, "client-email", "",
		"Reporting client email, defaults to the logged in user.")
	cmd.Flags().StringVar(&o.ClientName, "client-name", "",
		"Reporting client name, looked up from the email when empty.")
}

// GetPriority parses the priority flag.
func (o *TicketOptions) GetPriority() (ticket.Priority, error) {
	return ticket.ParsePriority(o.Priority)
}

// FilterOptions narrows ticket listings.
type FilterOptions struct {
	Status      string
	Priority    string
	ClientEmail string
	AgentID     string
	Unassigned  bool
	Mine        bool
	Since       string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Status, "status", "s", "",
		"Only tickets in this status: open, progress or resolved.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"Only tickets with this priority: low, medium or high.")
	cmd.Flags().StringVar(&o.ClientEmail, "client", "",
		"Only tickets submitted by this client email.")
	cmd.Flags().StringVar(&o.AgentID, "agent", "",
		"Only tickets assigned to this agent id.")
	cmd.Flags().BoolVar(&o.Unassigned, "unassigned", false,
		"Only tickets without an agent.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Only tickets submitted within this window, example: --since=1w or --since=2d6h.`)
}

func AddMineArg(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().BoolVarP(&o.Mine, "mine", "m", false,
		"Only tickets of the logged in client or agent.")
}

// Filter converts the flags into an app.Filter.
func (o *FilterOptions) Filter() (app.Filter, error) {
	f := app.Filter{
		ClientEmail: o.ClientEmail,
		AgentID:     o.AgentID,
		Unassigned:  o.Unassigned,
	}
	if o.Status != "" {
		s, err := ticket.ParseStatus(o.Status)
		if err != nil {
			return f, err
		}
		f.Status = s
	}
	if o.Priority != "" {
		p, err := ticket.ParsePriority(o.Priority)
		if err != nil {
			return f, err
		}
		f.Priority = p
	}
	window, err := timeutil.ParseWindow(o.Since)
	if err != nil {
		return f, err
	}
	f.Since = timeutil.Since(time.Now(), window)
	return f, nil
}
