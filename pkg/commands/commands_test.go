package commands

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := New()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("helpdesk %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func useTempStore(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HELPDESK_CONFIG_PATH", dir)
	t.Setenv("HELPDESK_PATH", dir)
	t.Setenv("HELPDESK_LOG_LEVEL", "error")
}

type ticketJSON struct {
	ID          int64   `json:"id"`
	Subject     string  `json:"subject"`
	Status      string  `json:"status"`
	ClientEmail string  `json:"clientEmail"`
	AgentID     *string `json:"agentId"`
}

func TestTicketLifecycleCommands(t *testing.T) {
	useTempStore(t)

	run(t, "client", "register", "--name", "Ana Torres", "--email", "ana@example.com", "--json")

	var created ticketJSON
	out := run(t, "ticket", "create", "Printer", "is", "jammed", "-p", "high", "--json")
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if created.Subject != "Printer is jammed" || created.ClientEmail != "ana@example.com" || created.Status != "open" {
		t.Fatalf("unexpected ticket %+v", created)
	}
	id := strconv.FormatInt(created.ID, 10)

	var assigned ticketJSON
	out = run(t, "ticket", "assign", id, "agent2", "--json")
	if err := json.Unmarshal([]byte(out), &assigned); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if assigned.AgentID == nil || *assigned.AgentID != "agent2" {
		t.Fatalf("agent = %v, want agent2", assigned.AgentID)
	}

	run(t, "ticket", "status", "#"+id, "resolved", "--json")

	var resolved []ticketJSON
	out = run(t, "ticket", "list", "--status", "resolved", "--json")
	if err := json.Unmarshal([]byte(out), &resolved); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(resolved) != 1 || resolved[0].ID != created.ID {
		t.Fatalf("resolved = %+v", resolved)
	}

	run(t, "ticket", "delete", id, "--yes")

	var left []ticketJSON
	out = run(t, "ticket", "list", "--json")
	if err := json.Unmarshal([]byte(out), &left); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no tickets, got %+v", left)
	}
}

func TestExportCommand(t *testing.T) {
	useTempStore(t)

	run(t, "client", "register", "--name", "Bruno", "--email", "bruno@example.com", "--json")
	run(t, "ticket", "create", "VPN, again", "--json")

	out := run(t, "export")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	if !strings.Contains(lines[1], `"VPN, again"`) {
		t.Fatalf("expected quoted subject in %q", lines[1])
	}
}

func TestDeleteWithJSONNeedsYes(t *testing.T) {
	useTempStore(t)

	run(t, "client", "register", "--name", "Ana Torres", "--email", "ana@example.com", "--json")
	var created ticketJSON
	out := run(t, "ticket", "create", "Printer", "--json")
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}

	// JSON errors are reported on stdout and the command exits cleanly.
	out = run(t, "ticket", "delete", strconv.FormatInt(created.ID, 10), "--json")
	if strings.Contains(out, `"deleted"`) {
		t.Fatalf("expected no deletion, got %q", out)
	}

	var left []ticketJSON
	out = run(t, "ticket", "list", "--json")
	if err := json.Unmarshal([]byte(out), &left); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(left) != 1 || left[0].ID != created.ID {
		t.Fatalf("expected the ticket to survive, got %+v", left)
	}
}

func TestBadStatusFails(t *testing.T) {
	useTempStore(t)

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ticket", "status", "1", "closed"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an invalid status to fail")
	}
}
