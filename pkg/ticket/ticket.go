// Package ticket defines the helpdesk ticket record and its lifecycle
// mutations.
package ticket

import (
	"encoding/json"
	"fmt"
	"time"
)

// UpdateType classifies an entry in a ticket's update log.
type UpdateType string

const (
	UpdateAssignment   UpdateType = "assignment"
	UpdateStatusChange UpdateType = "status_change"
)

// Update is one entry of the append-only update log.
type Update struct {
	Type      UpdateType `json:"type"`
	Message   string     `json:"message"`
	Timestamp Timestamp  `json:"timestamp"`
}

// ChatRole tells who wrote a chat message.
type ChatRole string

const (
	RoleClient ChatRole = "client"
	RoleAgent  ChatRole = "agent"
)

// ChatMessage is one message of the conversation attached to a ticket.
type ChatMessage struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      ChatRole  `json:"role"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
}

// Ticket is a client-reported issue.
type Ticket struct {
	ID           int64
	Subject      string
	Description  string
	Status       Status
	Priority     Priority
	ClientEmail  string
	ClientName   string
	Assignment   Assignment
	CreatedAt    Timestamp
	Updates      []Update
	ChatMessages []ChatMessage
}

// New returns an open, unassigned ticket.
func New(id int64, subject, description string, priority Priority, clientEmail, clientName string, at time.Time) *Ticket {
	return &Ticket{
		ID:          id,
		Subject:     subject,
		Description: description,
		Status:      StatusOpen,
		Priority:    priority,
		ClientEmail: clientEmail,
		ClientName:  clientName,
		Assignment:  Unassigned(),
		CreatedAt:   At(at),
		Updates:     []Update{},
	}
}

// Assign binds the ticket to a and records the assignment.
func (t *Ticket) Assign(a Assignee, at time.Time) {
	t.Assignment = AssignedTo(a)
	name := a.AgentName
	if name == "" {
		name = "agent"
	}
	t.appendUpdate(UpdateAssignment, fmt.Sprintf("Ticket assigned to %s", name), at)
}

// SetStatus overwrites the status and records the change. The caller is
// responsible for validating s.
func (t *Ticket) SetStatus(s Status, at time.Time) {
	t.Status = s
	t.appendUpdate(UpdateStatusChange, fmt.Sprintf("Status changed to %s", s.Label()), at)
}

// AddChat appends a chat message.
func (t *Ticket) AddChat(m ChatMessage) {
	t.ChatMessages = append(t.ChatMessages, m)
}

func (t *Ticket) appendUpdate(typ UpdateType, msg string, at time.Time) {
	t.Updates = append(t.Updates, Update{
		Type:      typ,
		Message:   msg,
		Timestamp: At(at),
	})
}

// UpdatesOf returns the updates of the given type in log order.
func (t *Ticket) UpdatesOf(typ UpdateType) []Update {
	out := make([]Update, 0, len(t.Updates))
	for _, u := range t.Updates {
		if u.Type == typ {
			out = append(out, u)
		}
	}
	return out
}

// LastUpdate returns the newest update, if any.
func (t *Ticket) LastUpdate() (Update, bool) {
	if len(t.Updates) == 0 {
		return Update{}, false
	}
	return t.Updates[len(t.Updates)-1], true
}

// Clone returns a deep copy.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Updates != nil {
		cp.Updates = append([]Update(nil), t.Updates...)
	}
	if t.ChatMessages != nil {
		cp.ChatMessages = append([]ChatMessage(nil), t.ChatMessages...)
	}
	if a, ok := t.Assignment.Assignee(); ok {
		cp.Assignment = AssignedTo(a)
	}
	return &cp
}

// wireTicket is the persisted shape. Agent fields are flattened and agentId
// is null while unassigned.
type wireTicket struct {
	ID           int64         `json:"id"`
	Subject      string        `json:"subject"`
	Description  string        `json:"description"`
	Status       Status        `json:"status"`
	Priority     Priority      `json:"priority"`
	ClientEmail  string        `json:"clientEmail"`
	ClientName   string        `json:"clientName"`
	AgentID      *string       `json:"agentId"`
	AgentName    string        `json:"agentName,omitempty"`
	AgentEmail   string        `json:"agentEmail,omitempty"`
	AgentPhone   string        `json:"agentPhone,omitempty"`
	CreatedAt    Timestamp     `json:"createdAt"`
	Updates      []Update      `json:"updates"`
	ChatMessages []ChatMessage `json:"chatMessages,omitempty"`
}

func (t Ticket) MarshalJSON() ([]byte, error) {
	w := wireTicket{
		ID:           t.ID,
		Subject:      t.Subject,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		ClientEmail:  t.ClientEmail,
		ClientName:   t.ClientName,
		CreatedAt:    t.CreatedAt,
		Updates:      t.Updates,
		ChatMessages: t.ChatMessages,
	}
	if a, ok := t.Assignment.Assignee(); ok {
		id := a.AgentID
		w.AgentID = &id
		w.AgentName = a.AgentName
		w.AgentEmail = a.AgentEmail
		w.AgentPhone = a.AgentPhone
	}
	return json.Marshal(w)
}

func (t *Ticket) UnmarshalJSON(b []byte) error {
	var w wireTicket
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = Ticket{
		ID:           w.ID,
		Subject:      w.Subject,
		Description:  w.Description,
		Status:       w.Status,
		Priority:     w.Priority,
		ClientEmail:  w.ClientEmail,
		ClientName:   w.ClientName,
		CreatedAt:    w.CreatedAt,
		Updates:      w.Updates,
		ChatMessages: w.ChatMessages,
	}
	if w.AgentID != nil && *w.AgentID != "" {
		t.Assignment = AssignedTo(Assignee{
			AgentID:    *w.AgentID,
			AgentName:  w.AgentName,
			AgentEmail: w.AgentEmail,
			AgentPhone: w.AgentPhone,
		})
	}
	return nil
}
