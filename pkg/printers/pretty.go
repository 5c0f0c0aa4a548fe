package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/metrics"
	"tableflip.dev/helpdesk/pkg/ticket"
	"tableflip.dev/helpdesk/pkg/timeutil"
)

// NoticeKind selects the colour of a one-line notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " ticket")
	default:
		_, _ = c.Fprintln(pp.out(), " tickets")
	}
}

// Notice prints a single coloured status line.
func (pp *PrettyPrint) Notice(kind NoticeKind, msg string) {
	var c *color.Color
	switch kind {
	case NoticeSuccess:
		c = color.New(color.FgGreen)
	case NoticeError:
		c = color.New(color.FgRed, color.Bold)
	case NoticeWarning:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgCyan)
	}
	_, _ = c.Fprintln(pp.out(), msg)
}

// Tickets prints one table row per ticket.
func (pp *PrettyPrint) Tickets(tickets ...*ticket.Ticket) {
	if len(tickets) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Faint)

	now := time.Now()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Subject"), bold.Sprint("Client"),
		bold.Sprint("Agent"), bold.Sprint("Status"), bold.Sprint("Priority"), bold.Sprint("Created"), bold.Sprint("Age"))
	for _, t := range tickets {
		tbl.AddRow(
			y.Sprint(strconv.FormatInt(t.ID, 10)),
			t.Subject,
			orDefault(t.ClientName, t.ClientEmail),
			agentLabel(t),
			StatusColor(t.Status).Sprint(t.Status.Label()),
			PriorityColor(t.Priority).Sprint(t.Priority.Label()),
			t.CreatedAt.Date(),
			timeutil.Age(t.CreatedAt.Time, now),
		)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Ticket prints the full detail of one ticket with its history and
// conversation.
func (pp *PrettyPrint) Ticket(t *ticket.Ticket) {
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	pp.Title(fmt.Sprintf("#%d %s", t.ID, t.Subject))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72
	tbl.AddRow(bold.Sprint("Status"), StatusColor(t.Status).Sprint(t.Status.Label()))
	tbl.AddRow(bold.Sprint("Priority"), PriorityColor(t.Priority).Sprint(t.Priority.Label()))
	tbl.AddRow(bold.Sprint("Client"), clientLabel(t))
	tbl.AddRow(bold.Sprint("Agent"), agentLabel(t))
	tbl.AddRow(bold.Sprint("Created"), t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if t.Description != "" {
		tbl.AddRow(bold.Sprint("Description"), t.Description)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	_, _ = bold.Fprintln(pp.out(), "History")
	if len(t.Updates) == 0 {
		_, _ = faint.Fprintln(pp.out(), "  no updates")
	}
	for _, u := range t.Updates {
		_, _ = faint.Fprintf(pp.out(), "  %s  ", u.Timestamp.Local().Format("2006-01-02 15:04"))
		_, _ = fmt.Fprintln(pp.out(), u.Message)
	}

	if len(t.ChatMessages) > 0 {
		pp.NewLine()
		_, _ = bold.Fprintln(pp.out(), "Conversation")
		for _, m := range t.ChatMessages {
			who := color.New(color.FgCyan)
			if m.Role == ticket.RoleAgent {
				who = color.New(color.FgMagenta)
			}
			_, _ = faint.Fprintf(pp.out(), "  %s  ", m.Timestamp.Local().Format("2006-01-02 15:04"))
			_, _ = who.Fprintf(pp.out(), "%s: ", orDefault(m.Author, string(m.Role)))
			_, _ = fmt.Fprintln(pp.out(), m.Message)
		}
	}
	pp.NewLine()
}

// Agents prints the agent roster.
func (pp *PrettyPrint) Agents(agents ...*account.Agent) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Email"),
		bold.Sprint("Phone"), bold.Sprint("Skills"), bold.Sprint("Active"))
	for _, a := range agents {
		active := color.New(color.FgGreen).Sprint("yes")
		if !a.Active {
			active = faint.Sprint("no")
		}
		tbl.AddRow(a.ID, a.Name, a.Email, a.Phone, strings.Join(a.Skills, ", "), active)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// AgentMetrics prints per-agent workload with the unassigned bucket last.
func (pp *PrettyPrint) AgentMetrics(ms []metrics.AgentMetric) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Agent"), bold.Sprint("Total"), bold.Sprint("Open"),
		bold.Sprint("In Progress"), bold.Sprint("Resolved"), bold.Sprint("Performance"))
	for _, m := range ms {
		name := m.Name
		if m.AgentID == metrics.UnassignedID {
			name = color.New(color.Italic).Sprint(name)
		}
		tbl.AddRow(name, m.Total, m.Open, m.Progress, m.Resolved, performance(m.Performance))
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	tbl.RightAlign(4)
	tbl.RightAlign(5)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// ClientCounts prints the status breakdown of one client's tickets.
func (pp *PrettyPrint) ClientCounts(email string, c metrics.Counts) {
	pp.Title(email)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Total", c.Total)
	tbl.AddRow(StatusColor(ticket.StatusOpen).Sprint("Open"), c.Open)
	tbl.AddRow(StatusColor(ticket.StatusProgress).Sprint("In Progress"), c.Progress)
	tbl.AddRow(StatusColor(ticket.StatusResolved).Sprint("Resolved"), c.Resolved)
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Session prints who is logged in.
func (pp *PrettyPrint) Session(s *account.Session) {
	if s == nil {
		pp.Notice(NoticeInfo, "Not logged in.")
		return
	}
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(pp.out(), "%s %s <%s>\n", bold.Sprint(string(s.Role)+":"), s.Name(), s.Email())
}

// StatusColor is the colour used for a status badge.
func StatusColor(s ticket.Status) *color.Color {
	switch s {
	case ticket.StatusOpen:
		return color.New(color.FgYellow)
	case ticket.StatusProgress:
		return color.New(color.FgBlue)
	case ticket.StatusResolved:
		return color.New(color.FgGreen)
	default:
		return color.New(color.Faint)
	}
}

// PriorityColor is the colour used for a priority badge.
func PriorityColor(p ticket.Priority) *color.Color {
	switch p {
	case ticket.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case ticket.PriorityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}

func performance(pct int) string {
	c := color.New(color.FgRed)
	switch {
	case pct >= 75:
		c = color.New(color.FgGreen)
	case pct >= 40:
		c = color.New(color.FgYellow)
	}
	return c.Sprintf("%d%%", pct)
}

func agentLabel(t *ticket.Ticket) string {
	if name := t.Assignment.AgentName(); name != "" {
		return name
	}
	return color.New(color.Faint, color.Italic).Sprint("Unassigned")
}

func clientLabel(t *ticket.Ticket) string {
	switch {
	case t.ClientName != "" && t.ClientEmail != "":
		return fmt.Sprintf("%s <%s>", t.ClientName, t.ClientEmail)
	case t.ClientName != "":
		return t.ClientName
	case t.ClientEmail != "":
		return t.ClientEmail
	}
	return "N/A"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
