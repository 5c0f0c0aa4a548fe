package main

import (
	"context"
	"errors"
	"log"

	"github.com/fatih/color"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/store"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// demo fills the configured store with a handful of clients and tickets.
func main() {
	ctx := context.Background()

	cfg, err := store.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := store.NewLogger(cfg)
	p, err := store.Load(cfg)
	if err != nil {
		log.Fatal(err)
	}
	h, err := app.Open(ctx, p, logger)
	if err != nil {
		log.Fatal(err)
	}

	clients := []struct{ name, email, phone string }{
		{"Ana Torres", "ana@example.com", "555-0101"},
		{"Bruno Diaz", "bruno@example.com", "555-0102"},
	}
	for _, c := range clients {
		if _, err := h.RegisterClient(ctx, c.name, c.email, c.phone); err != nil && !errors.Is(err, app.ErrDuplicateEmail) {
			log.Fatal(err)
		}
	}

	printer, err := h.CreateTicket(ctx, "Printer is jammed", "Third floor, tray 2", ticket.PriorityHigh, "ana@example.com", "")
	if err != nil {
		log.Fatal(err)
	}
	vpn, err := h.CreateTicket(ctx, "VPN drops every hour", "", ticket.PriorityMedium, "bruno@example.com", "")
	if err != nil {
		log.Fatal(err)
	}
	if _, err := h.CreateTicket(ctx, "New keyboard", "The E key sticks", ticket.PriorityLow, "ana@example.com", ""); err != nil {
		log.Fatal(err)
	}

	agents, err := h.ActiveAgents(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if len(agents) > 0 {
		if _, err := h.AssignAgent(ctx, printer.ID, agents[0].ID); err != nil {
			log.Fatal(err)
		}
		if _, err := h.AddChatMessage(ctx, printer.ID, agents[0].Name, ticket.RoleAgent, "On my way with a new tray."); err != nil {
			log.Fatal(err)
		}
		if _, err := h.ChangeStatus(ctx, printer.ID, ticket.StatusResolved); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := h.ChangeStatus(ctx, vpn.ID, ticket.StatusProgress); err != nil {
		log.Fatal(err)
	}
	if err := h.Logout(ctx); err != nil {
		log.Fatal(err)
	}

	all, err := h.AllTickets(ctx)
	if err != nil {
		log.Fatal(err)
	}
	pp := printers.PrettyPrint{Out: color.Output}
	pp.TitleWithCount("Tickets", len(all))
	pp.Tickets(all...)
}
