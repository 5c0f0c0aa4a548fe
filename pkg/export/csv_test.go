package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"tableflip.dev/helpdesk/pkg/ticket"
)

func TestCSVQuotesEveryField(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	a := ticket.New(7, `Say "hi"`, "", ticket.PriorityHigh, "x@y.com", "", created)
	b := ticket.New(8, "VPN, again", "", ticket.PriorityLow, "z@y.com", "Zoe", created)
	b.Assign(ticket.Assignee{AgentID: "agent1", AgentName: "Ana García"}, created)
	b.SetStatus(ticket.StatusProgress, created)

	out, err := CSVString([]*ticket.Ticket{a, b})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d: %q", len(lines), out)
	}
	if lines[0] != `"ID","Subject","Client","Agent","Status","Priority","Created"` {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := `"7","Say ""hi""","N/A","Unassigned","Open","high","2025-03-01"`
	if lines[1] != want {
		t.Fatalf("unexpected row:\n got %s\nwant %s", lines[1], want)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if got := records[2]; got[1] != "VPN, again" || got[3] != "Ana García" || got[4] != "In Progress" {
		t.Fatalf("unexpected parsed row %q", got)
	}
}

func TestCSVEmpty(t *testing.T) {
	out, err := CSVString(nil)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected header only, got %q", out)
	}
}
