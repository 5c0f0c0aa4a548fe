package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/metrics"
	"tableflip.dev/helpdesk/pkg/store"
	"tableflip.dev/helpdesk/pkg/ticket"
)

var errStoreDown = errors.New("store down")

type memoryPersistence struct {
	mu         sync.Mutex
	tickets    []*ticket.Ticket
	clients    []*account.Client
	agents     []*account.Agent
	haveAgents bool
	session    *account.Session
	failWrites bool
	// failSession fails only session writes.
	failSession bool
	writes      int
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{}
}

func (m *memoryPersistence) Tickets(_ context.Context) ([]*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ticket.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (m *memoryPersistence) StoreTickets(tickets []*ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errStoreDown
	}
	m.writes++
	m.tickets = m.tickets[:0:0]
	for _, t := range tickets {
		m.tickets = append(m.tickets, t.Clone())
	}
	return nil
}

func (m *memoryPersistence) Clients(_ context.Context) ([]*account.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*account.Client, 0, len(m.clients))
	for _, c := range m.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryPersistence) StoreClients(clients []*account.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errStoreDown
	}
	m.writes++
	m.clients = nil
	for _, c := range clients {
		cp := *c
		m.clients = append(m.clients, &cp)
	}
	return nil
}

func (m *memoryPersistence) Agents(_ context.Context) ([]*account.Agent, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*account.Agent, 0, len(m.agents))
	for _, a := range m.agents {
		cp := *a
		out = append(out, &cp)
	}
	return out, m.haveAgents, nil
}

func (m *memoryPersistence) StoreAgents(agents []*account.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errStoreDown
	}
	m.writes++
	m.haveAgents = true
	m.agents = nil
	for _, a := range agents {
		cp := *a
		m.agents = append(m.agents, &cp)
	}
	return nil
}

func (m *memoryPersistence) Session(_ context.Context) (*account.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *memoryPersistence) StoreSession(s *account.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites || m.failSession {
		return errStoreDown
	}
	cp := *s
	m.session = &cp
	return nil
}

func (m *memoryPersistence) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *memoryPersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *memoryPersistence) setFailWrites(v bool) {
	m.mu.Lock()
	m.failWrites = v
	m.mu.Unlock()
}

func newTestService(t *testing.T) (*Service, *memoryPersistence) {
	t.Helper()
	mp := newMemoryPersistence()
	svc, err := Open(context.Background(), mp, nil)
	if err != nil {
		t.Fatalf("open service: %v", err)
	}
	return svc, mp
}

func fixedClock(start time.Time) func() time.Time {
	return func() time.Time { return start }
}

func TestOpenSeedsPredefinedAgents(t *testing.T) {
	svc, mp := newTestService(t)
	agents, err := svc.Agents(context.Background())
	if err != nil {
		t.Fatalf("agents: %v", err)
	}
	if len(agents) != 3 {
		t.Fatalf("expected 3 predefined agents, got %d", len(agents))
	}
	if agents[0].ID != "agent1" || agents[0].Email != "ana@soporte.com" {
		t.Fatalf("unexpected first agent %+v", agents[0])
	}
	if !mp.haveAgents {
		t.Fatalf("expected seeded agents to be persisted")
	}
}

func TestOpenKeepsStoredAgents(t *testing.T) {
	mp := newMemoryPersistence()
	if err := mp.StoreAgents([]*account.Agent{}); err != nil {
		t.Fatalf("store agents: %v", err)
	}
	svc, err := Open(context.Background(), mp, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	agents, _ := svc.Agents(context.Background())
	if len(agents) != 0 {
		t.Fatalf("an existing empty agents blob should not be reseeded, got %d", len(agents))
	}
}

func TestTicketLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != ticket.StatusOpen {
		t.Fatalf("expected open, got %s", created.Status)
	}
	if created.Assignment.IsAssigned() {
		t.Fatalf("new ticket should be unassigned")
	}

	assigned, err := svc.AssignAgent(ctx, created.ID, "agent1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Assignment.AgentID() != "agent1" {
		t.Fatalf("expected agent1, got %q", assigned.Assignment.AgentID())
	}
	if assigned.Assignment.AgentName() != "Ana García" {
		t.Fatalf("agent name not resolved: %q", assigned.Assignment.AgentName())
	}
	if len(assigned.Updates) != 1 || assigned.Updates[0].Type != ticket.UpdateAssignment {
		t.Fatalf("expected one assignment update, got %+v", assigned.Updates)
	}

	resolved, err := svc.ChangeStatus(ctx, created.ID, ticket.StatusResolved)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if resolved.Status != ticket.StatusResolved || len(resolved.Updates) != 2 {
		t.Fatalf("expected resolved with 2 updates, got %s/%d", resolved.Status, len(resolved.Updates))
	}

	stored, err := svc.TicketByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != ticket.StatusResolved || len(stored.Updates) != 2 {
		t.Fatalf("stored ticket not updated: %+v", stored)
	}
}

func TestAssignUnknownAgentLeavesTicketUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	created, err := svc.CreateTicket(ctx, "A", "", ticket.PriorityLow, "x@y.com", "X")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	writes := mp.writes

	if _, err := svc.AssignAgent(ctx, created.ID, "agent99"); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("expected ErrAgentNotFound, got %v", err)
	}
	got, _ := svc.TicketByID(ctx, created.ID)
	if got.Assignment.IsAssigned() || len(got.Updates) != 0 {
		t.Fatalf("ticket changed after failed assignment: %+v", got)
	}
	if mp.writes != writes {
		t.Fatalf("failed assignment should not write")
	}
	if _, err := svc.AssignAgent(ctx, 42, "agent1"); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestChangeStatusAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	created, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityMedium, "x@y.com", "X")

	if _, err := svc.ChangeStatus(ctx, created.ID, ticket.StatusProgress); err != nil {
		t.Fatalf("first change: %v", err)
	}
	got, err := svc.ChangeStatus(ctx, created.ID, ticket.StatusResolved)
	if err != nil {
		t.Fatalf("second change: %v", err)
	}
	updates := got.UpdatesOf(ticket.UpdateStatusChange)
	if len(updates) != 2 {
		t.Fatalf("expected 2 status updates, got %d", len(updates))
	}
	if updates[0].Message != "Status changed to In Progress" || updates[1].Message != "Status changed to Resolved" {
		t.Fatalf("unexpected order: %q, %q", updates[0].Message, updates[1].Message)
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	created, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityMedium, "x@y.com", "X")

	if _, err := svc.ChangeStatus(ctx, created.ID, ticket.Status("closed")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	got, _ := svc.TicketByID(ctx, created.ID)
	if got.Status != ticket.StatusOpen || len(got.Updates) != 0 {
		t.Fatalf("ticket changed after invalid status: %+v", got)
	}
}

func TestChangeStatusUnknownTicket(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)
	created, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityMedium, "x@y.com", "X")
	writes := mp.writes

	if _, err := svc.ChangeStatus(ctx, created.ID+1, ticket.StatusResolved); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
	if mp.writes != writes {
		t.Fatalf("unexpected write for an unknown ticket")
	}
	got, _ := svc.TicketByID(ctx, created.ID)
	if got.Status != ticket.StatusOpen || len(got.Updates) != 0 {
		t.Fatalf("other ticket changed: %+v", got)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.CreateTicket(ctx, "  ", "", ticket.PriorityLow, "x@y.com", "X"); !errors.Is(err, ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}
	if _, err := svc.CreateTicket(ctx, "A", "", ticket.Priority("urgent"), "x@y.com", "X"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestCreateTicketOrderingAndIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.Now = fixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	first, _ := svc.CreateTicket(ctx, "first", "", ticket.PriorityLow, "x@y.com", "X")
	second, _ := svc.CreateTicket(ctx, "second", "", ticket.PriorityLow, "x@y.com", "X")
	if second.ID <= first.ID {
		t.Fatalf("ids must increase under a frozen clock: %d then %d", first.ID, second.ID)
	}

	all, _ := svc.AllTickets(ctx)
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("newest ticket should come first: %+v", all)
	}
}

func TestCreateTicketFillsClientName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if _, err := svc.RegisterClient(ctx, "Xavier", "x@y.com", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	created, err := svc.CreateTicket(ctx, "A", "", ticket.PriorityLow, "x@y.com", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ClientName != "Xavier" {
		t.Fatalf("expected client name from registry, got %q", created.ClientName)
	}
}

func TestRegisterClientRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.RegisterClient(ctx, "X", "x@y.com", "555"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RegisterClient(ctx, "Other", "x@y.com", ""); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	clients, _ := svc.Clients(ctx)
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}
	if _, err := svc.RegisterClient(ctx, "Upper", "X@y.com", ""); err != nil {
		t.Fatalf("emails differing in case are distinct: %v", err)
	}
}

func TestLoginTrimsEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.RegisterClient(ctx, "Ana", " ana@example.com ", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.LoginClient(ctx, " ana@example.com"); err != nil {
		t.Fatalf("client login: %v", err)
	}
	if _, err := svc.LoginAgent(ctx, "ana@soporte.com "); err != nil {
		t.Fatalf("agent login: %v", err)
	}

	created, err := svc.CreateTicket(ctx, "A", "", ticket.PriorityLow, " ana@example.com", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ClientEmail != "ana@example.com" || created.ClientName != "Ana" {
		t.Fatalf("client not matched: %q %q", created.ClientEmail, created.ClientName)
	}
}

func TestRegisterKeepsAccountWhenSessionFails(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	mp.failSession = true
	c, err := svc.RegisterClient(ctx, "Ana", "ana@example.com", "")
	if !errors.Is(err, ErrSessionNotStarted) || !errors.Is(err, errStoreDown) {
		t.Fatalf("expected ErrSessionNotStarted, got %v", err)
	}
	if c == nil || c.Email != "ana@example.com" {
		t.Fatalf("expected the registered client, got %+v", c)
	}
	a, err := svc.RegisterAgent(ctx, "Diego", "diego@soporte.com", "", nil)
	if !errors.Is(err, ErrSessionNotStarted) || a == nil {
		t.Fatalf("expected the agent with ErrSessionNotStarted, got %+v, %v", a, err)
	}
	mp.failSession = false

	if _, err := svc.LoginClient(ctx, "ana@example.com"); err != nil {
		t.Fatalf("login after failed session: %v", err)
	}
	if _, err := svc.RegisterClient(ctx, "Ana", "ana@example.com", ""); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestClientSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	if _, err := svc.LoginClient(ctx, "x@y.com"); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if _, err := svc.RegisterClient(ctx, "X", "x@y.com", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, _ := svc.Session(ctx)
	if sess == nil || sess.Role != account.RoleClient || sess.Email() != "x@y.com" {
		t.Fatalf("registration should log in, got %+v", sess)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sess, _ := svc.Session(ctx); sess != nil {
		t.Fatalf("expected no session, got %+v", sess)
	}

	if _, err := svc.LoginClient(ctx, "x@y.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	// A fresh service over the same persistence restores the session.
	again, err := Open(ctx, mp, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if sess, _ := again.Session(ctx); sess == nil || sess.Name() != "X" {
		t.Fatalf("session not restored: %+v", sess)
	}
}

func TestAgentRegistrationAndActivation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.RegisterAgent(ctx, "Diego", "diego@soporte.com", "", []string{"network"})
	if err != nil {
		t.Fatalf("register agent: %v", err)
	}
	if a.ID != "agent4" || !a.Active {
		t.Fatalf("unexpected agent %+v", a)
	}
	if _, err := svc.RegisterAgent(ctx, "Ana", "ana@soporte.com", "", nil); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := svc.SetAgentActive(ctx, "agent4", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.LoginAgent(ctx, "diego@soporte.com"); !errors.Is(err, ErrAgentInactive) {
		t.Fatalf("expected ErrAgentInactive, got %v", err)
	}
	active, _ := svc.ActiveAgents(ctx)
	if len(active) != 3 {
		t.Fatalf("expected 3 active agents, got %d", len(active))
	}

	if _, err := svc.LoginAgent(ctx, "carlos@soporte.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.SetAgentActive(ctx, "agent9", true); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestAgentMetricsWithoutTickets(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.AgentMetrics(context.Background())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 3 agents plus unassigned, got %d", len(got))
	}
	if got[3].AgentID != metrics.UnassignedID {
		t.Fatalf("last bucket should be unassigned, got %q", got[3].AgentID)
	}
	for _, m := range got {
		if m.Total != 0 || m.Performance != 0 {
			t.Fatalf("expected zero metrics for %s, got %+v", m.AgentID, m)
		}
	}
}

func TestClientMetricsAndFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "X")
	svc.CreateTicket(ctx, "B", "", ticket.PriorityLow, "x@y.com", "X")
	svc.CreateTicket(ctx, "C", "", ticket.PriorityLow, "z@y.com", "Z")
	svc.AssignAgent(ctx, a.ID, "agent2")
	svc.ChangeStatus(ctx, a.ID, ticket.StatusResolved)

	counts, err := svc.ClientMetrics(ctx, "x@y.com")
	if err != nil {
		t.Fatalf("client metrics: %v", err)
	}
	if counts.Total != 2 || counts.Resolved != 1 || counts.Open != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}

	mine, _ := svc.AgentTickets(ctx, "agent2")
	if len(mine) != 1 || mine[0].ID != a.ID {
		t.Fatalf("unexpected agent tickets %+v", mine)
	}
	unassigned, _ := svc.Tickets(ctx, Filter{Unassigned: true})
	if len(unassigned) != 2 {
		t.Fatalf("expected 2 unassigned tickets, got %d", len(unassigned))
	}
	low, _ := svc.Tickets(ctx, Filter{Priority: ticket.PriorityLow, ClientEmail: "x@y.com"})
	if len(low) != 1 || low[0].Subject != "B" {
		t.Fatalf("unexpected filtered tickets %+v", low)
	}
	if _, err := svc.ClientTickets(ctx, ""); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestFilterSince(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	svc.Now = fixedClock(start)
	svc.CreateTicket(ctx, "Old", "", ticket.PriorityLow, "x@y.com", "X")
	svc.Now = fixedClock(start.Add(72 * time.Hour))
	svc.CreateTicket(ctx, "New", "", ticket.PriorityLow, "x@y.com", "X")

	recent, _ := svc.Tickets(ctx, Filter{Since: start.Add(24 * time.Hour)})
	if len(recent) != 1 || recent[0].Subject != "New" {
		t.Fatalf("unexpected recent tickets %+v", recent)
	}
	all, _ := svc.Tickets(ctx, Filter{})
	if len(all) != 2 {
		t.Fatalf("expected both tickets without a window, got %d", len(all))
	}
}

func TestDeleteTicket(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "X")
	b, _ := svc.CreateTicket(ctx, "B", "", ticket.PriorityHigh, "x@y.com", "X")

	if err := svc.DeleteTicket(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := svc.AllTickets(ctx)
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("unexpected tickets after delete %+v", all)
	}
	if err := svc.DeleteTicket(ctx, a.ID); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestAddChatMessage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "X")

	if _, err := svc.AddChatMessage(ctx, a.ID, "X", ticket.RoleClient, "  "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	got, err := svc.AddChatMessage(ctx, a.ID, "X", ticket.RoleClient, "hello")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if len(got.ChatMessages) != 1 || got.ChatMessages[0].ID == "" || got.ChatMessages[0].Message != "hello" {
		t.Fatalf("unexpected chat %+v", got.ChatMessages)
	}
	if len(got.Updates) != 0 {
		t.Fatalf("chat should not add history entries")
	}
}

func TestFailedWriteRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)
	a, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "X")

	mp.setFailWrites(true)
	if _, err := svc.ChangeStatus(ctx, a.ID, ticket.StatusResolved); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := svc.CreateTicket(ctx, "B", "", ticket.PriorityHigh, "x@y.com", "X"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := svc.RegisterClient(ctx, "X", "x@y.com", ""); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	mp.setFailWrites(false)

	all, _ := svc.AllTickets(ctx)
	if len(all) != 1 || all[0].Status != ticket.StatusOpen || len(all[0].Updates) != 0 {
		t.Fatalf("memory diverged from storage: %+v", all)
	}
	clients, _ := svc.Clients(ctx)
	if len(clients) != 0 {
		t.Fatalf("client kept after failed write")
	}
}

func TestReturnedTicketsAreCopies(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a, _ := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "X")

	a.Subject = "mutated"
	got, _ := svc.TicketByID(ctx, a.ID)
	if got.Subject != "A" {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestCancelledContextDoesNotWrite(t *testing.T) {
	svc, mp := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	writes := mp.writes
	if _, err := svc.CreateTicket(ctx, "A", "", ticket.PriorityHigh, "x@y.com", "X"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mp.writes != writes {
		t.Fatalf("cancelled operation wrote to storage")
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.CreateTicket(ctx, "Printer \"jam\"", "", ticket.PriorityLow, "x@y.com", "X")

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf, Filter{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if !strings.Contains(lines[1], `"Printer ""jam"""`) || !strings.Contains(lines[1], `"Unassigned"`) {
		t.Fatalf("unexpected row %s", lines[1])
	}
}

func TestReloadAcrossDiskStore(t *testing.T) {
	ctx := context.Background()
	p, err := store.Load(diskConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	svc, err := Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a, err := svc.CreateTicket(ctx, "A", "d", ticket.PriorityHigh, "x@y.com", "X")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AssignAgent(ctx, a.ID, "agent3"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	other, err := Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := other.TicketByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Assignment.AgentName() != "María Rodríguez" || len(got.Updates) != 1 {
		t.Fatalf("reloaded ticket differs: %+v", got)
	}
}

func TestCorruptBlobIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p, err := store.Load(diskConfig(dir))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}

	for _, name := range []string{"tickets.json", "agents.json"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(dir, name)
			damaged := []byte(`[{"id":1,"subject":"kept"`)
			if err := os.WriteFile(file, damaged, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			defer os.Remove(file)

			if _, err := Open(ctx, p, nil); !errors.Is(err, store.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			b, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(b, damaged) {
				t.Fatalf("%s rewritten to %q", name, b)
			}
		})
	}
}

type diskConfig string

func (c diskConfig) BasePath() string { return string(c) }
func (c diskConfig) LogLevel() string { return "error" }
