package board

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/store"
	"tableflip.dev/helpdesk/pkg/ticket"
)

type tempConfig string

func (c tempConfig) BasePath() string { return string(c) }
func (c tempConfig) LogLevel() string { return "error" }

func newTestBoard(t *testing.T, subjects ...string) (Model, *app.Service) {
	t.Helper()
	ctx := context.Background()
	p, err := store.Load(tempConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	svc, err := app.Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, s := range subjects {
		if _, err := svc.CreateTicket(ctx, s, "", ticket.PriorityMedium, "ana@example.com", "Ana"); err != nil {
			t.Fatalf("create %q: %v", s, err)
		}
	}
	m := New(ctx, svc)
	return load(t, m), svc
}

// load runs the ticket load command and feeds its message back.
func load(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, m.loadTickets()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm
}

func TestBoardLoadsTickets(t *testing.T) {
	m, _ := newTestBoard(t, "Printer", "VPN")

	if got := len(m.ticketList.Items()); got != 2 {
		t.Fatalf("expected 2 tickets, got %d", got)
	}
	all, ok := m.statusList.Items()[0].(statusItem)
	if !ok || all.Title() != "All (2)" {
		t.Fatalf("unexpected first status row %#v", m.statusList.Items()[0])
	}
	open, _ := m.statusList.Items()[1].(statusItem)
	if open.Title() != "Open (2)" {
		t.Fatalf("open row = %q", open.Title())
	}
}

func TestBoardAdvanceStatus(t *testing.T) {
	m, svc := newTestBoard(t, "Printer")
	ctx := context.Background()
	id := m.currentTicket().ID

	cmd := m.advanceStatus()
	if cmd == nil {
		t.Fatalf("expected a reload command")
	}
	got, err := svc.TicketByID(ctx, id)
	if err != nil {
		t.Fatalf("TicketByID: %v", err)
	}
	if got.Status != ticket.StatusProgress {
		t.Fatalf("status = %s, want progress", got.Status)
	}
	if !strings.Contains(m.status, "In Progress") {
		t.Fatalf("status line = %q", m.status)
	}

	m = update(t, m, cmd())
	m.advanceStatus()
	m = load(t, m)
	m.advanceStatus()
	got, _ = svc.TicketByID(ctx, id)
	if got.Status != ticket.StatusOpen {
		t.Fatalf("expected status to wrap back to open, got %s", got.Status)
	}
}

func TestBoardAssignNext(t *testing.T) {
	m, svc := newTestBoard(t, "Printer")
	ctx := context.Background()
	id := m.currentTicket().ID

	m.assignNext()
	got, _ := svc.TicketByID(ctx, id)
	if got.Assignment.AgentID() != "agent1" {
		t.Fatalf("agent = %q, want agent1", got.Assignment.AgentID())
	}

	m = load(t, m)
	m.assignNext()
	got, _ = svc.TicketByID(ctx, id)
	if got.Assignment.AgentID() != "agent2" {
		t.Fatalf("agent = %q, want agent2", got.Assignment.AgentID())
	}
}

func TestBoardDelete(t *testing.T) {
	m, svc := newTestBoard(t, "Printer", "VPN")

	m.confirmDelete()
	if m.mode != modeConfirm {
		t.Fatalf("expected confirm mode, got %v", m.mode)
	}
	m = update(t, m, m.answerDelete(true)())
	if got := len(m.ticketList.Items()); got != 1 {
		t.Fatalf("expected 1 ticket left, got %d", got)
	}
	all, _ := svc.AllTickets(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected 1 stored ticket, got %d", len(all))
	}
}

func TestBoardDeleteDeclined(t *testing.T) {
	m, svc := newTestBoard(t, "Printer", "VPN")

	m.confirmDelete()
	if cmd := m.answerDelete(false); cmd != nil {
		t.Fatalf("expected no command when declined")
	}
	if m.mode != modeNormal {
		t.Fatalf("expected normal mode, got %v", m.mode)
	}
	all, _ := svc.AllTickets(context.Background())
	if len(all) != 2 {
		t.Fatalf("expected 2 stored tickets, got %d", len(all))
	}
}

func TestBoardCreateNeedsClient(t *testing.T) {
	m, _ := newTestBoard(t)

	msg := m.createTicket("Keyboard")()
	if _, ok := msg.(errMsg); !ok {
		t.Fatalf("expected errMsg without a session, got %T", msg)
	}
	m = update(t, m, msg)
	if !strings.HasPrefix(m.status, "ERR:") {
		t.Fatalf("status line = %q", m.status)
	}
}

func TestBoardCreateAsClient(t *testing.T) {
	m, svc := newTestBoard(t)
	ctx := context.Background()
	if _, err := svc.RegisterClient(ctx, "Ana", "ana@example.com", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	m = update(t, m, m.createTicket("Keyboard")())
	if got := len(m.ticketList.Items()); got != 1 {
		t.Fatalf("expected the new ticket listed, got %d", got)
	}
	if ct := m.currentTicket(); ct == nil || ct.ClientEmail != "ana@example.com" {
		t.Fatalf("unexpected ticket %+v", ct)
	}
}

func TestBoardStatusFilter(t *testing.T) {
	m, _ := newTestBoard(t, "Printer", "VPN")
	m.advanceStatus()
	m = load(t, m)

	m.statusList.Select(2) // In Progress
	m = load(t, m)
	if got := len(m.ticketList.Items()); got != 1 {
		t.Fatalf("expected 1 ticket in progress, got %d", got)
	}
}

func TestBoardView(t *testing.T) {
	m, _ := newTestBoard(t, "Printer")
	m.detail = true

	view := m.View()
	for _, want := range []string{"Tickets", "Printer", "[NORMAL]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}
