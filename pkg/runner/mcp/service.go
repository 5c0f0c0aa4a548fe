// Package mcp provides the Model Context Protocol server integration for the
// helpdesk.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/export"
	"tableflip.dev/helpdesk/pkg/metrics"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// Service adapts helpdesk operations to transport-friendly shapes shared by
// the MCP tools and resources.
type Service struct {
	Helpdesk *app.Service
}

var errNoHelpdesk = errors.New("helpdesk is not configured")

// ListOptions narrows ListTickets. Empty strings do not filter.
type ListOptions struct {
	Status      string
	Priority    string
	ClientEmail string
	AgentID     string
	Unassigned  bool
}

// CreateTicketOptions captures the parameters used to submit a ticket.
type CreateTicketOptions struct {
	Subject     string
	Description string
	Priority    string
	ClientEmail string
	ClientName  string
}

// TicketDTO is a transport-friendly projection of a ticket.
type TicketDTO struct {
	ID            string           `json:"id"`
	Subject       string           `json:"subject"`
	Description   string           `json:"description,omitempty"`
	Status        string           `json:"status"`
	StatusLabel   string           `json:"statusLabel"`
	Priority      string           `json:"priority"`
	ClientEmail   string           `json:"clientEmail,omitempty"`
	ClientName    string           `json:"clientName,omitempty"`
	AgentID       string           `json:"agentId,omitempty"`
	AgentName     string           `json:"agentName,omitempty"`
	AgentEmail    string           `json:"agentEmail,omitempty"`
	CreatedISO    string           `json:"created"`
	CreatedUnix   int64            `json:"createdUnix"`
	Updates       []UpdateDTO      `json:"updates"`
	Chat          []ChatMessageDTO `json:"chat,omitempty"`
	IsAssigned    bool             `json:"isAssigned"`
	IsResolved    bool             `json:"isResolved"`
	LastUpdateISO string           `json:"lastUpdate,omitempty"`
}

// UpdateDTO is one history entry of a ticket.
type UpdateDTO struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ChatMessageDTO is one message of a ticket conversation.
type ChatMessageDTO struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// AgentDTO describes a support agent.
type AgentDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone,omitempty"`
	Skills []string `json:"skills,omitempty"`
	Active bool     `json:"active"`
}

// NewService builds a service wrapper around the helpdesk.
func NewService(h *app.Service) *Service {
	return &Service{Helpdesk: h}
}

// ListTickets returns the tickets matching opts, most recent first.
func (s *Service) ListTickets(ctx context.Context, opts ListOptions) ([]TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	f := app.Filter{
		ClientEmail: strings.TrimSpace(opts.ClientEmail),
		AgentID:     strings.TrimSpace(opts.AgentID),
		Unassigned:  opts.Unassigned,
	}
	if opts.Status != "" {
		st, err := ticket.ParseStatus(opts.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if opts.Priority != "" {
		p, err := ticket.ParsePriority(opts.Priority)
		if err != nil {
			return nil, err
		}
		f.Priority = p
	}
	tickets, err := s.Helpdesk.Tickets(ctx, f)
	if err != nil {
		return nil, err
	}
	return toDTOs(tickets), nil
}

// TicketByID locates a ticket by its identifier.
func (s *Service) TicketByID(ctx context.Context, rawID string) (*TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	id, err := ParseTicketID(rawID)
	if err != nil {
		return nil, err
	}
	t, err := s.Helpdesk.TicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// CreateTicket submits a new ticket. Priority defaults to medium.
func (s *Service) CreateTicket(ctx context.Context, opts CreateTicketOptions) (*TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	if strings.TrimSpace(opts.Priority) == "" {
		opts.Priority = string(ticket.PriorityMedium)
	}
	p, err := ticket.ParsePriority(opts.Priority)
	if err != nil {
		return nil, err
	}
	t, err := s.Helpdesk.CreateTicket(ctx, opts.Subject, opts.Description, p, strings.TrimSpace(opts.ClientEmail), strings.TrimSpace(opts.ClientName))
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// AssignTicket assigns the ticket to an agent.
func (s *Service) AssignTicket(ctx context.Context, rawID, agentID string) (*TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	id, err := ParseTicketID(rawID)
	if err != nil {
		return nil, err
	}
	t, err := s.Helpdesk.AssignAgent(ctx, id, strings.TrimSpace(agentID))
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// ChangeStatus moves the ticket to another lifecycle state.
func (s *Service) ChangeStatus(ctx context.Context, rawID, status string) (*TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	id, err := ParseTicketID(rawID)
	if err != nil {
		return nil, err
	}
	st, err := ticket.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	t, err := s.Helpdesk.ChangeStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// DeleteTicket removes a ticket permanently.
func (s *Service) DeleteTicket(ctx context.Context, rawID string) error {
	if s.Helpdesk == nil {
		return errNoHelpdesk
	}
	id, err := ParseTicketID(rawID)
	if err != nil {
		return err
	}
	return s.Helpdesk.DeleteTicket(ctx, id)
}

// AddChatMessage appends to a ticket conversation. Role defaults to agent.
func (s *Service) AddChatMessage(ctx context.Context, rawID, author, role, message string) (*TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	id, err := ParseTicketID(rawID)
	if err != nil {
		return nil, err
	}
	r := ticket.RoleAgent
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "", string(ticket.RoleAgent):
	case string(ticket.RoleClient):
		r = ticket.RoleClient
	default:
		return nil, fmt.Errorf("unknown chat role %q", role)
	}
	t, err := s.Helpdesk.AddChatMessage(ctx, id, strings.TrimSpace(author), r, message)
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// SearchTickets performs a case-insensitive substring match across subjects,
// descriptions and client details.
func (s *Service) SearchTickets(ctx context.Context, query string, limit int) ([]TicketDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return []TicketDTO{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	all, err := s.Helpdesk.AllTickets(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]TicketDTO, 0, limit)
	for _, t := range all {
		if len(results) >= limit {
			break
		}
		if matches(t, q) {
			results = append(results, toDTO(t))
		}
	}
	return results, nil
}

// ListAgents returns the agents, optionally only the active ones.
func (s *Service) ListAgents(ctx context.Context, activeOnly bool) ([]AgentDTO, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	list := s.Helpdesk.Agents
	if activeOnly {
		list = s.Helpdesk.ActiveAgents
	}
	agents, err := list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AgentDTO, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentDTO{
			ID:     a.ID,
			Name:   a.Name,
			Email:  a.Email,
			Phone:  a.Phone,
			Skills: a.Skills,
			Active: a.Active,
		})
	}
	return out, nil
}

// AgentMetrics returns per-agent workload.
func (s *Service) AgentMetrics(ctx context.Context) ([]metrics.AgentMetric, error) {
	if s.Helpdesk == nil {
		return nil, errNoHelpdesk
	}
	return s.Helpdesk.AgentMetrics(ctx)
}

// ClientMetrics returns the ticket counts of a client.
func (s *Service) ClientMetrics(ctx context.Context, email string) (metrics.Counts, error) {
	if s.Helpdesk == nil {
		return metrics.Counts{}, errNoHelpdesk
	}
	if strings.TrimSpace(email) == "" {
		return metrics.Counts{}, errors.New("email is required")
	}
	return s.Helpdesk.ClientMetrics(ctx, strings.TrimSpace(email))
}

// ExportCSV renders every ticket as CSV text.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	if s.Helpdesk == nil {
		return "", errNoHelpdesk
	}
	all, err := s.Helpdesk.AllTickets(ctx)
	if err != nil {
		return "", err
	}
	return export.CSVString(all)
}

// ParseTicketID parses the decimal ticket identifier.
func ParseTicketID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ticket id %q", raw)
	}
	return id, nil
}

func matches(t *ticket.Ticket, q string) bool {
	for _, field := range []string{t.Subject, t.Description, t.ClientEmail, t.ClientName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func toDTOs(tickets []*ticket.Ticket) []TicketDTO {
	out := make([]TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toDTO(t))
	}
	return out
}

func toDTO(t *ticket.Ticket) TicketDTO {
	dto := TicketDTO{
		ID:          strconv.FormatInt(t.ID, 10),
		Subject:     t.Subject,
		Description: t.Description,
		Status:      string(t.Status),
		StatusLabel: t.Status.Label(),
		Priority:    string(t.Priority),
		ClientEmail: t.ClientEmail,
		ClientName:  t.ClientName,
		CreatedISO:  ticket.FormatTime(t.CreatedAt.Time),
		CreatedUnix: t.CreatedAt.Unix(),
		Updates:     make([]UpdateDTO, 0, len(t.Updates)),
		IsAssigned:  t.Assignment.IsAssigned(),
		IsResolved:  t.Status == ticket.StatusResolved,
	}
	if a, ok := t.Assignment.Assignee(); ok {
		dto.AgentID = a.AgentID
		dto.AgentName = a.AgentName
		dto.AgentEmail = a.AgentEmail
	}
	for _, u := range t.Updates {
		dto.Updates = append(dto.Updates, UpdateDTO{
			Type:      string(u.Type),
			Message:   u.Message,
			Timestamp: ticket.FormatTime(u.Timestamp.Time),
		})
	}
	for _, m := range t.ChatMessages {
		dto.Chat = append(dto.Chat, ChatMessageDTO{
			ID:        m.ID,
			Author:    m.Author,
			Role:      string(m.Role),
			Message:   m.Message,
			Timestamp: ticket.FormatTime(m.Timestamp.Time),
		})
	}
	if u, ok := t.LastUpdate(); ok {
		dto.LastUpdateISO = ticket.FormatTime(u.Timestamp.Time)
	}
	return dto
}
