// Package export renders the ticket collection for download.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"tableflip.dev/helpdesk/pkg/ticket"
)

// Header is the first CSV row.
var Header = []string{"ID", "Subject", "Client", "Agent", "Status", "Priority", "Created"}

// Row projects a ticket onto the CSV columns.
func Row(t *ticket.Ticket) []string {
	client := t.ClientName
	if client == "" {
		client = "N/A"
	}
	agent := t.Assignment.AgentName()
	if agent == "" {
		agent = "Unassigned"
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Subject,
		client,
		agent,
		t.Status.Label(),
		string(t.Priority),
		t.CreatedAt.Date(),
	}
}

// CSV writes the header and one row per ticket. Every field is quoted so
// spreadsheet tools never reinterpret ids or dates.
func CSV(w io.Writer, tickets []*ticket.Ticket) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, Header); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := writeRow(bw, Row(t)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CSVString is CSV into a string.
func CSVString(tickets []*ticket.Ticket) (string, error) {
	var b strings.Builder
	if err := CSV(&b, tickets); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
