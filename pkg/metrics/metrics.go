// Package metrics derives ticket counts and agent performance from the
// ticket collection. Nothing here is persisted; every call recomputes from
// the records it is given.
package metrics

import (
	"math"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// UnassignedID keys the synthetic bucket for tickets without an agent.
const UnassignedID = "unassigned"

// Counts holds ticket counts by status.
type Counts struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	Progress int `json:"progress"`
	Resolved int `json:"resolved"`
}

// Add counts t under its status. Statuses outside the enumeration still
// count towards Total.
func (c *Counts) Add(t *ticket.Ticket) {
	c.Total++
	switch t.Status {
	case ticket.StatusOpen:
		c.Open++
	case ticket.StatusProgress:
		c.Progress++
	case ticket.StatusResolved:
		c.Resolved++
	}
}

// Rate is resolved/total as a whole percentage, 0 when total is 0.
func (c Counts) Rate() int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Resolved) / float64(c.Total) * 100))
}

// AgentMetric is the workload of one agent, or of the unassigned bucket.
type AgentMetric struct {
	AgentID     string `json:"agentId"`
	Name        string `json:"name"`
	Performance int    `json:"performance"`
	Counts
}

// Agents computes a metric for every active agent, in agent order, followed
// by the unassigned bucket.
func Agents(agents []*account.Agent, tickets []*ticket.Ticket) []AgentMetric {
	out := make([]AgentMetric, 0, len(agents)+1)
	for _, a := range agents {
		if a == nil || !a.Active {
			continue
		}
		m := AgentMetric{AgentID: a.ID, Name: a.Name}
		for _, t := range tickets {
			if t.Assignment.AgentID() == a.ID {
				m.Add(t)
			}
		}
		m.Performance = m.Rate()
		out = append(out, m)
	}

	unassigned := AgentMetric{AgentID: UnassignedID, Name: "Unassigned"}
	for _, t := range tickets {
		if !t.Assignment.IsAssigned() {
			unassigned.Add(t)
		}
	}
	unassigned.Performance = unassigned.Rate()
	return append(out, unassigned)
}

// Client counts the tickets submitted under email.
func Client(email string, tickets []*ticket.Ticket) Counts {
	var c Counts
	for _, t := range tickets {
		if t.ClientEmail == email {
			c.Add(t)
		}
	}
	return c
}
