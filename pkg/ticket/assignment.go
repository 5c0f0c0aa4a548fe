package ticket

// Assignee identifies the agent a ticket is bound to, denormalised at
// assignment time.
type Assignee struct {
	AgentID    string
	AgentName  string
	AgentEmail string
	AgentPhone string
}

// Assignment is either unassigned (the zero value) or assigned to exactly
// one Assignee.
type Assignment struct {
	assignee *Assignee
}

// Unassigned returns the empty assignment.
func Unassigned() Assignment {
	return Assignment{}
}

// AssignedTo binds an assignment to a.
func AssignedTo(a Assignee) Assignment {
	return Assignment{assignee: &a}
}

// Assignee returns the bound agent and true, or false if unassigned.
func (a Assignment) Assignee() (Assignee, bool) {
	if a.assignee == nil {
		return Assignee{}, false
	}
	return *a.assignee, true
}

func (a Assignment) IsAssigned() bool {
	return a.assignee != nil
}

// AgentID is the bound agent id, or "" when unassigned.
func (a Assignment) AgentID() string {
	if a.assignee == nil {
		return ""
	}
	return a.assignee.AgentID
}

// AgentName is the bound agent name, or "" when unassigned.
func (a Assignment) AgentName() string {
	if a.assignee == nil {
		return ""
	}
	return a.assignee.AgentName
}
