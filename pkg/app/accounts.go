package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/helpdesk/pkg/account"
)

// RegisterClient creates a client and logs it in. Emails are compared
// exactly after trimming, so a differently cased address is a different
// client. When only the login fails the client is returned with the error.
func (s *Service) RegisterClient(ctx context.Context, name, email, phone string) (*account.Client, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if s.clientByEmail(email) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}

	var taken int64
	for _, c := range s.clients {
		if c.ID > taken {
			taken = c.ID
		}
	}
	now := s.now()
	c := &account.Client{
		ID:               nextID(now, taken),
		Name:             name,
		Email:            email,
		Phone:            strings.TrimSpace(phone),
		RegistrationDate: now.UTC(),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	next := append(append(make([]*account.Client, 0, len(s.clients)+1), s.clients...), c)
	if err := s.Persistence.StoreClients(next); err != nil {
		return nil, err
	}
	s.clients = next
	s.logger().Debug("client registered", "email", email)

	cp := *c
	if err := s.setSession(&account.Session{Role: account.RoleClient, Client: &cp}); err != nil {
		return &cp, fmt.Errorf("%w: %w", ErrSessionNotStarted, err)
	}
	return &cp, nil
}

// LoginClient starts a client session. Supplying a registered email is the
// whole check.
func (s *Service) LoginClient(ctx context.Context, email string) (*account.Client, error) {
	email = strings.TrimSpace(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c := s.clientByEmail(email)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, email)
	}
	cp := *c
	if err := s.setSession(&account.Session{Role: account.RoleClient, Client: &cp}); err != nil {
		return nil, err
	}
	return &cp, nil
}

// RegisterAgent adds an active agent and logs it in. Its id continues the
// agentN series. When only the login fails the agent is returned with the
// error.
func (s *Service) RegisterAgent(ctx context.Context, name, email, phone string, skills []string) (*account.Agent, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if s.agentByEmail(email) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}

	a := &account.Agent{
		ID:               s.nextAgentID(),
		Name:             name,
		Email:            email,
		Phone:            strings.TrimSpace(phone),
		Skills:           skills,
		Active:           true,
		RegistrationDate: s.now().UTC(),
	}
	next := append(append(make([]*account.Agent, 0, len(s.agents)+1), s.agents...), a)
	if err := s.commitAgents(ctx, next); err != nil {
		return nil, err
	}
	s.logger().Debug("agent registered", "id", a.ID, "email", email)

	cp := *a
	if err := s.setSession(&account.Session{Role: account.RoleAgent, Agent: &cp}); err != nil {
		return &cp, fmt.Errorf("%w: %w", ErrSessionNotStarted, err)
	}
	return &cp, nil
}

// LoginAgent starts an agent session. Inactive agents cannot log in.
func (s *Service) LoginAgent(ctx context.Context, email string) (*account.Agent, error) {
	email = strings.TrimSpace(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	a := s.agentByEmail(email)
	if a == nil {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, email)
	}
	if !a.Active {
		return nil, fmt.Errorf("%w: %s", ErrAgentInactive, email)
	}
	cp := *a
	if err := s.setSession(&account.Session{Role: account.RoleAgent, Agent: &cp}); err != nil {
		return nil, err
	}
	return &cp, nil
}

// SetAgentActive toggles whether the agent can be assigned and log in.
func (s *Service) SetAgentActive(ctx context.Context, agentID string, active bool) (*account.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	var idx = -1
	for i, a := range s.agents {
		if a.ID == agentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrAgentNotFound, agentID)
	}

	updated := *s.agents[idx]
	updated.Active = active
	next := make([]*account.Agent, len(s.agents))
	copy(next, s.agents)
	next[idx] = &updated
	if err := s.commitAgents(ctx, next); err != nil {
		return nil, err
	}
	cp := updated
	return &cp, nil
}

// Logout forgets the current session.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	return s.setSession(nil)
}

// Session returns the current session, or nil when nobody is logged in.
func (s *Service) Session(ctx context.Context) (*account.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if s.session == nil {
		return nil, nil
	}
	cp := *s.session
	return &cp, nil
}

// Clients lists registered clients in registration order.
func (s *Service) Clients(ctx context.Context) ([]*account.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]*account.Client, 0, len(s.clients))
	for _, c := range s.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// Agents lists every agent, active or not.
func (s *Service) Agents(ctx context.Context) ([]*account.Agent, error) {
	return s.listAgents(ctx, false)
}

// ActiveAgents lists the agents eligible for assignment.
func (s *Service) ActiveAgents(ctx context.Context) ([]*account.Agent, error) {
	return s.listAgents(ctx, true)
}

// AgentByID returns the agent with id.
func (s *Service) AgentByID(ctx context.Context, id string) (*account.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	a := s.agentByID(id)
	if a == nil {
		return nil, fmt.Errorf("%w: %q", ErrAgentNotFound, id)
	}
	cp := *a
	return &cp, nil
}

func (s *Service) listAgents(ctx context.Context, activeOnly bool) ([]*account.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]*account.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		if activeOnly && !a.Active {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Service) commitAgents(ctx context.Context, next []*account.Agent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Persistence.StoreAgents(next); err != nil {
		return err
	}
	s.agents = next
	return nil
}

func (s *Service) setSession(session *account.Session) error {
	var err error
	if session == nil {
		err = s.Persistence.ClearSession()
	} else {
		err = s.Persistence.StoreSession(session)
	}
	if err != nil {
		return err
	}
	s.session = session
	return nil
}

func (s *Service) clientByEmail(email string) *account.Client {
	for _, c := range s.clients {
		if c.Email == email {
			return c
		}
	}
	return nil
}

func (s *Service) agentByEmail(email string) *account.Agent {
	for _, a := range s.agents {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func (s *Service) agentByID(id string) *account.Agent {
	for _, a := range s.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Service) nextAgentID() string {
	n := len(s.agents)
	for _, a := range s.agents {
		if v, err := strconv.Atoi(strings.TrimPrefix(a.ID, "agent")); err == nil && v > n {
			n = v
		}
	}
	for {
		n++
		id := "agent" + strconv.Itoa(n)
		if s.agentByID(id) == nil {
			return id
		}
	}
}
