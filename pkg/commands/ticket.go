package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/commands/options"
	"tableflip.dev/helpdesk/pkg/runner/add"
	"tableflip.dev/helpdesk/pkg/runner/assign"
	"tableflip.dev/helpdesk/pkg/runner/chat"
	"tableflip.dev/helpdesk/pkg/runner/get"
	"tableflip.dev/helpdesk/pkg/runner/remove"
	"tableflip.dev/helpdesk/pkg/runner/status"
	"tableflip.dev/helpdesk/pkg/snake"
	"tableflip.dev/helpdesk/pkg/ticket"
)

func addTicket(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "ticket",
		Aliases: []string{"t"},
		Short:   "Create, route and resolve support tickets.",
	}

	addTicketCreate(cmd)
	addTicketList(cmd)
	addTicketGet(cmd)
	addTicketAssign(cmd)
	addTicketStatus(cmd)
	addTicketDelete(cmd)
	addTicketChat(cmd)

	topLevel.AddCommand(cmd)
}

func addTicketCreate(topLevel *cobra.Command) {
	to := &options.TicketOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "create [subject]",
		Short: "Submit a new ticket.",
		Example: `
helpdesk ticket create "Printer is jammed" -d "Third floor, tray 2" -p high
helpdesk ticket create -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			to.Subject = strings.Join(args, " ")
			priority, err := to.GetPriority()
			if err != nil {
				return oo.HandleError(err)
			}
			if i.Interactive || strings.TrimSpace(to.Subject) == "" {
				answers, err := snake.PromptTicket(cmd, snake.TicketAnswers{
					Subject:     to.Subject,
					Description: to.Description,
					Priority:    priority,
				})
				if err != nil {
					return oo.HandleError(err)
				}
				to.Subject = answers.Subject
				to.Description = answers.Description
				priority = answers.Priority
			}

			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := add.Add{
				Subject:     to.Subject,
				Description: to.Description,
				Priority:    priority,
				ClientEmail: to.ClientEmail,
				ClientName:  to.ClientName,
				Helpdesk:    h,
				Out:         outOf(cmd),
				JSON:        oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	options.AddTicketArgs(cmd, to)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addTicketList(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	mo := &options.MonthOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tickets, most recent first.",
		Example: `
helpdesk ticket list --status open --priority high
helpdesk ticket list --mine --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			month, err := mo.GetMonth(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}

			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := get.Get{
				Filter:   f,
				Mine:     fo.Mine,
				Month:    month,
				Helpdesk: h,
				Out:      outOf(cmd),
				JSON:     oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddMineArg(cmd, fo)
	options.AddMonthArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}

func addTicketGet(topLevel *cobra.Command) {
	id := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		Short:   "Show a ticket with its history and conversation.",
		Args:    options.TicketIDArg(id, nil),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := get.Show{ID: id.ID, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: ticketCompletions,
	}

	topLevel.AddCommand(cmd)
}

func addTicketAssign(topLevel *cobra.Command) {
	id := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "assign <id> [agent id]",
		Short: "Assign a ticket to an agent, picking one when no id is given.",
		Example: `
helpdesk ticket assign 1700000000000 agent2
helpdesk ticket assign 1700000000000
`,
		Args: options.TicketIDArg(id, cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}

			agentID := ""
			if len(args) > 1 {
				agentID = args[1]
			} else {
				agents, err := h.ActiveAgents(ctx)
				if err != nil {
					return oo.HandleError(err)
				}
				a, err := snake.PromptAgent(cmd, agents)
				if err != nil {
					return oo.HandleError(err)
				}
				agentID = a.ID
			}

			s := assign.Assign{ID: id.ID, AgentID: agentID, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: ticketCompletions,
	}

	topLevel.AddCommand(cmd)
}

func addTicketStatus(topLevel *cobra.Command) {
	id := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "status <id> [open|progress|resolved]",
		Short: "Move a ticket to another status, picking one when none is given.",
		Args:  options.TicketIDArg(id, cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}

			var next ticket.Status
			if len(args) > 1 {
				next, err = ticket.ParseStatus(args[1])
				if err != nil {
					return oo.HandleError(err)
				}
			} else {
				t, err := h.TicketByID(ctx, id.ID)
				if err != nil {
					return oo.HandleError(err)
				}
				next, err = snake.PromptStatus(cmd, t.Status)
				if err != nil {
					return oo.HandleError(err)
				}
			}

			s := status.Status{ID: id.ID, Status: next, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: ticketCompletions,
	}

	topLevel.AddCommand(cmd)
}

func addTicketDelete(topLevel *cobra.Command) {
	id := &options.IDOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a ticket for good.",
		Args:    options.TicketIDArg(id, nil),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := remove.Remove{ID: id.ID, Helpdesk: h, Out: outOf(cmd), JSON: oo.JSON}
			if !co.Yes {
				if oo.JSON {
					return oo.HandleError(options.ErrConfirmationRequired)
				}
				s.Confirm = func(label string) (bool, error) {
					return snake.Confirm(cmd, label)
				}
			}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: ticketCompletions,
	}

	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}

func addTicketChat(topLevel *cobra.Command) {
	id := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "chat <id> [message...]",
		Short: "Post to a ticket's conversation, or show it when no message is given.",
		Example: `
helpdesk ticket chat 1700000000000 "Have you tried turning it off and on?"
helpdesk ticket chat 1700000000000
`,
		Args: options.TicketIDArg(id, cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := loadHelpdesk(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			s := chat.Chat{
				ID:       id.ID,
				Message:  strings.Join(args[1:], " "),
				Helpdesk: h,
				Out:      outOf(cmd),
				JSON:     oo.JSON,
			}
			return oo.HandleError(s.Do(ctx))
		},
		ValidArgsFunction: ticketCompletions,
	}

	topLevel.AddCommand(cmd)
}
