// Package app holds the helpdesk store: the in-memory ticket, client and
// agent collections, the rules that mutate them, and their synchronisation
// to persistence after every change.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/store"
	"tableflip.dev/helpdesk/pkg/ticket"
)

var (
	ErrTicketNotFound = errors.New("app: ticket not found")
	ErrClientNotFound = errors.New("app: client not found")
	ErrAgentNotFound  = errors.New("app: agent not found")
	ErrDuplicateEmail = errors.New("app: email already registered")
	ErrAgentInactive  = errors.New("app: agent is not active")
	ErrInvalidAccount = errors.New("app: name and email are required")
	ErrInvalidTicket  = errors.New("app: subject is required")
	ErrEmptyMessage   = errors.New("app: message is required")
	// ErrSessionNotStarted means an account was saved but logging it in
	// failed. Log in again rather than registering twice.
	ErrSessionNotStarted = errors.New("app: registered, but the session was not saved")

	ErrInvalidStatus   = ticket.ErrInvalidStatus
	ErrInvalidPriority = ticket.ErrInvalidPriority
)

// Service provides the helpdesk operations. It loads every collection from
// Persistence on first use and rewrites a whole collection after each
// mutation of it. Service is safe for concurrent use within a process;
// across processes the last write wins.
type Service struct {
	Persistence store.Persistence
	Logger      *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	loaded  bool
	tickets []*ticket.Ticket
	clients []*account.Client
	agents  []*account.Agent
	session *account.Session
}

// Open builds a Service over p and loads its collections.
func Open(ctx context.Context, p store.Persistence, logger *slog.Logger) (*Service, error) {
	s := &Service{Persistence: p, Logger: logger}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload discards the in-memory state and reads every collection again.
// The predefined agents are written on the first load of an empty store.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	return s.ensureLoaded(ctx)
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	tickets, err := s.Persistence.Tickets(ctx)
	if err != nil {
		return err
	}
	clients, err := s.Persistence.Clients(ctx)
	if err != nil {
		return err
	}
	agents, found, err := s.Persistence.Agents(ctx)
	if err != nil {
		return err
	}
	if !found {
		agents = account.Predefined()
		if err := s.Persistence.StoreAgents(agents); err != nil {
			return err
		}
		s.logger().Debug("seeded predefined agents", "count", len(agents))
	}
	session, err := s.Persistence.Session(ctx)
	if err != nil {
		return err
	}

	s.tickets = tickets
	s.clients = clients
	s.agents = agents
	s.session = session
	s.loaded = true
	s.logger().Debug("store loaded",
		"tickets", len(tickets), "clients", len(clients), "agents", len(agents))
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// nextID allocates a millisecond timestamp id that is strictly greater than
// every id already taken, so rapid creation never collides.
func nextID(now time.Time, taken int64) int64 {
	id := now.UnixMilli()
	if id <= taken {
		id = taken + 1
	}
	return id
}
