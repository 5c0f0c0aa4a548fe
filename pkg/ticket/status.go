package ticket

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidStatus is returned for a status outside the known lifecycle states.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPriority is returned for a priority outside low, medium and high.
	ErrInvalidPriority = errors.New("invalid priority")
)

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusOpen     Status = "open"
	StatusProgress Status = "progress"
	StatusResolved Status = "resolved"
)

// AllStatuses returns the lifecycle states in workflow order.
func AllStatuses() []Status {
	return []Status{StatusOpen, StatusProgress, StatusResolved}
}

// ParseStatus converts user input into a Status. "in-progress" and
// "in_progress" are accepted as spellings of progress.
func ParseStatus(raw string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "in-progress", "in_progress", "inprogress":
		s = string(StatusProgress)
	}
	for _, candidate := range AllStatuses() {
		if string(candidate) == s {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("ticket: %w %q (expected open, progress or resolved)", ErrInvalidStatus, raw)
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	for _, candidate := range AllStatuses() {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label is the human readable name of the state.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	default:
		return string(s)
	}
}

func (s Status) String() string {
	return string(s)
}

// Priority ranks how urgent a ticket is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts user input into a Priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range AllPriorities() {
		if candidate == p {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("ticket: %w %q (expected low, medium or high)", ErrInvalidPriority, raw)
}

// Label capitalises the priority for display.
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

func (p Priority) String() string {
	return string(p)
}
