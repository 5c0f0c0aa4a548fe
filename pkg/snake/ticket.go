package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// TicketAnswers holds what the ticket form collected.
type TicketAnswers struct {
	Subject     string
	Description string
	Priority    ticket.Priority
}

// PromptTicket asks for the subject, description and priority of a new
// ticket, starting from the given defaults.
func PromptTicket(cmd *cobra.Command, defaults TicketAnswers) (TicketAnswers, error) {
	out := defaults

	subject := promptui.Prompt{
		Label:   "Subject",
		Default: defaults.Subject,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("subject is required")
			}
			return nil
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	var err error
	if out.Subject, err = subject.Run(); err != nil {
		return out, err
	}

	description := promptui.Prompt{
		Label:   "Description",
		Default: defaults.Description,
		Stdin:   io.NopCloser(cmd.InOrStdin()),
		Stdout:  NopCloser(cmd.OutOrStdout()),
	}
	if out.Description, err = description.Run(); err != nil {
		return out, err
	}

	priorities := ticket.AllPriorities()
	cursor := 1
	for i, p := range priorities {
		if p == defaults.Priority {
			cursor = i
		}
	}
	sel := promptui.Select{
		Label:     "Priority",
		Items:     priorities,
		CursorPos: cursor,
		HideHelp:  true,
		Templates: &promptui.SelectTemplates{
			Active:   "➜ {{ .Label | bold }}",
			Inactive: "  {{ .Label }}",
			Selected: "Priority: {{ .Label | bold }}",
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	i, _, err := sel.Run()
	if err != nil {
		return out, err
	}
	out.Priority = priorities[i]
	return out, nil
}

// PromptStatus lets the user pick a lifecycle state.
func PromptStatus(cmd *cobra.Command, current ticket.Status) (ticket.Status, error) {
	statuses := ticket.AllStatuses()
	cursor := 0
	for i, s := range statuses {
		if s == current {
			cursor = i
		}
	}
	sel := promptui.Select{
		Label:     "Status",
		Items:     statuses,
		CursorPos: cursor,
		HideHelp:  true,
		Templates: &promptui.SelectTemplates{
			Active:   "➜ {{ .Label | bold }}",
			Inactive: "  {{ .Label }}",
			Selected: "Status: {{ .Label | bold }}",
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return statuses[i], nil
}

// PromptAgent lets the user pick one of agents.
func PromptAgent(cmd *cobra.Command, agents []*account.Agent) (*account.Agent, error) {
	if len(agents) == 0 {
		return nil, errors.New("no active agents")
	}
	sel := promptui.Select{
		Label:    "Agent",
		Items:    agents,
		HideHelp: true,
		Templates: &promptui.SelectTemplates{
			Active:   "➜ {{ .Name | bold }} {{ .Email | cyan }}",
			Inactive: "  {{ .Name }} {{ .Email | faint }}",
			Selected: "Agent: {{ .Name | bold }}",
		},
		Searcher: func(input string, index int) bool {
			a := agents[index]
			return strings.Contains(strings.ToLower(a.Name+a.Email+a.ID), strings.ToLower(input))
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	i, _, err := sel.Run()
	if err != nil {
		return nil, err
	}
	return agents[i], nil
}

// Confirm asks a yes/no question. Declining is not an error.
func Confirm(cmd *cobra.Command, label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}
	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	ok, err := ParseBool(result)
	if err != nil {
		return false, fmt.Errorf("unexpected answer %q", result)
	}
	return ok, nil
}
