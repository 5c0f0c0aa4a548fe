package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/helpdesk/pkg/ticket"
)

// Filter narrows ticket listings. Zero-value fields do not filter.
type Filter struct {
	Status      ticket.Status
	Priority    ticket.Priority
	ClientEmail string
	AgentID     string
	Unassigned  bool
	// Since drops tickets created before it.
	Since time.Time
}

func (f Filter) match(t *ticket.Ticket) bool {
	switch {
	case f.Status != "" && t.Status != f.Status:
		return false
	case f.Priority != "" && t.Priority != f.Priority:
		return false
	case f.ClientEmail != "" && t.ClientEmail != f.ClientEmail:
		return false
	case f.AgentID != "" && t.Assignment.AgentID() != f.AgentID:
		return false
	case f.Unassigned && t.Assignment.IsAssigned():
		return false
	case !f.Since.IsZero() && t.CreatedAt.Before(f.Since):
		return false
	}
	return true
}

// Tickets lists the tickets matching f, most recent first.
func (s *Service) Tickets(ctx context.Context, f Filter) ([]*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]*ticket.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if f.match(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// AllTickets lists every ticket, most recent first.
func (s *Service) AllTickets(ctx context.Context) ([]*ticket.Ticket, error) {
	return s.Tickets(ctx, Filter{})
}

// ClientTickets lists the tickets submitted under email.
func (s *Service) ClientTickets(ctx context.Context, email string) ([]*ticket.Ticket, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: empty email", ErrClientNotFound)
	}
	return s.Tickets(ctx, Filter{ClientEmail: email})
}

// AgentTickets lists the tickets assigned to agentID.
func (s *Service) AgentTickets(ctx context.Context, agentID string) ([]*ticket.Ticket, error) {
	if agentID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrAgentNotFound)
	}
	return s.Tickets(ctx, Filter{AgentID: agentID})
}

// TicketByID returns the ticket with id.
func (s *Service) TicketByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := s.ticketIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTicketNotFound, id)
	}
	return s.tickets[i].Clone(), nil
}

// CreateTicket submits a new open, unassigned ticket and puts it at the
// front of the collection. An empty clientName is filled from the
// registered client, if any.
func (s *Service) CreateTicket(ctx context.Context, subject, description string, priority ticket.Priority, clientEmail, clientName string) (*ticket.Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrInvalidTicket
	}
	clientEmail = strings.TrimSpace(clientEmail)
	if _, err := ticket.ParsePriority(string(priority)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if clientName == "" {
		if c := s.clientByEmail(clientEmail); c != nil {
			clientName = c.Name
		}
	}

	var taken int64
	for _, t := range s.tickets {
		if t.ID > taken {
			taken = t.ID
		}
	}
	t := ticket.New(nextID(s.now(), taken), subject, description, priority, clientEmail, clientName, s.now())

	next := make([]*ticket.Ticket, 0, len(s.tickets)+1)
	next = append(next, t)
	next = append(next, s.tickets...)
	if err := s.commitTickets(ctx, next); err != nil {
		return nil, err
	}
	s.logger().Debug("ticket created", "id", t.ID, "client", clientEmail, "priority", priority)
	return t.Clone(), nil
}

// AssignAgent binds the ticket to agentID and records the assignment. The
// ticket is left untouched when either side does not resolve.
func (s *Service) AssignAgent(ctx context.Context, ticketID int64, agentID string) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := s.ticketIndex(ticketID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
	}
	agent := s.agentByID(agentID)
	if agent == nil {
		return nil, fmt.Errorf("%w: %q", ErrAgentNotFound, agentID)
	}

	t := s.tickets[i].Clone()
	t.Assign(agent.Assignee(), s.now())
	if err := s.commitTickets(ctx, s.replaceTicket(i, t)); err != nil {
		return nil, err
	}
	s.logger().Debug("ticket assigned", "id", ticketID, "agent", agentID)
	return t.Clone(), nil
}

// ChangeStatus moves the ticket to status and records the change. Values
// outside the lifecycle states are rejected with ErrInvalidStatus.
func (s *Service) ChangeStatus(ctx context.Context, ticketID int64, status ticket.Status) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := s.ticketIndex(ticketID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("app: %w %q", ErrInvalidStatus, status)
	}

	t := s.tickets[i].Clone()
	t.SetStatus(status, s.now())
	if err := s.commitTickets(ctx, s.replaceTicket(i, t)); err != nil {
		return nil, err
	}
	s.logger().Debug("ticket status changed", "id", ticketID, "status", status)
	return t.Clone(), nil
}

// DeleteTicket removes the ticket permanently. Callers confirm with the
// user first; there is no undo.
func (s *Service) DeleteTicket(ctx context.Context, ticketID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	i := s.ticketIndex(ticketID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
	}
	next := make([]*ticket.Ticket, 0, len(s.tickets)-1)
	next = append(next, s.tickets[:i]...)
	next = append(next, s.tickets[i+1:]...)
	if err := s.commitTickets(ctx, next); err != nil {
		return err
	}
	s.logger().Debug("ticket deleted", "id", ticketID)
	return nil
}

// AddChatMessage appends a message to the ticket conversation.
func (s *Service) AddChatMessage(ctx context.Context, ticketID int64, author string, role ticket.ChatRole, message string) (*ticket.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := s.ticketIndex(ticketID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
	}

	t := s.tickets[i].Clone()
	t.AddChat(ticket.ChatMessage{
		ID:        uuid.NewString(),
		Author:    author,
		Role:      role,
		Message:   message,
		Timestamp: ticket.At(s.now()),
	})
	if err := s.commitTickets(ctx, s.replaceTicket(i, t)); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// commitTickets persists next and only then makes it the live collection,
// so a failed write leaves memory as it was.
func (s *Service) commitTickets(ctx context.Context, next []*ticket.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Persistence.StoreTickets(next); err != nil {
		return err
	}
	s.tickets = next
	return nil
}

func (s *Service) replaceTicket(i int, t *ticket.Ticket) []*ticket.Ticket {
	next := make([]*ticket.Ticket, len(s.tickets))
	copy(next, s.tickets)
	next[i] = t
	return next
}

func (s *Service) ticketIndex(id int64) int {
	for i, t := range s.tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}
