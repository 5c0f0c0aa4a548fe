// Package account defines the client and agent identities of the helpdesk.
package account

import (
	"time"

	"tableflip.dev/helpdesk/pkg/ticket"
)

// Client is an end user who submits tickets. Email is the unique key.
type Client struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// Agent is a support staff member eligible for assignment.
type Agent struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Skills           []string  `json:"skills,omitempty"`
	Active           bool      `json:"active"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// Assignee projects the agent onto the fields a ticket keeps.
func (a *Agent) Assignee() ticket.Assignee {
	return ticket.Assignee{
		AgentID:    a.ID,
		AgentName:  a.Name,
		AgentEmail: a.Email,
		AgentPhone: a.Phone,
	}
}

// Predefined returns the agents every new store starts with.
func Predefined() []*Agent {
	return []*Agent{
		{ID: "agent1", Name: "Ana García", Email: "ana@soporte.com", Active: true},
		{ID: "agent2", Name: "Carlos López", Email: "carlos@soporte.com", Active: true},
		{ID: "agent3", Name: "María Rodríguez", Email: "maria@soporte.com", Active: true},
	}
}

// Role tells which side of the desk a session belongs to.
type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
)

// Session is the currently authenticated identity. Exactly one of Client
// and Agent is set.
type Session struct {
	Role   Role    `json:"role"`
	Client *Client `json:"client,omitempty"`
	Agent  *Agent  `json:"agent,omitempty"`
}

// Name of the session holder.
func (s *Session) Name() string {
	switch {
	case s == nil:
		return ""
	case s.Client != nil:
		return s.Client.Name
	case s.Agent != nil:
		return s.Agent.Name
	}
	return ""
}

// Email of the session holder.
func (s *Session) Email() string {
	switch {
	case s == nil:
		return ""
	case s.Client != nil:
		return s.Client.Email
	case s.Agent != nil:
		return s.Agent.Email
	}
	return ""
}
