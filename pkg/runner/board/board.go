// Package board is a two pane terminal view of the helpdesk: statuses on
// the left, the tickets in the selected status on the right.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/ticket"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeCommand
	modeHelp
	modeConfirm
)

type action int

const (
	actionNone action = iota
	actionCreate
	actionChat
)

const (
	paneStatuses = iota
	paneTickets
)

// statusItem is a row of the left pane. The empty status lists everything.
type statusItem struct {
	status ticket.Status
	count  int
}

func (s statusItem) Title() string {
	label := "All"
	if s.status != "" {
		label = s.status.Label()
	}
	return fmt.Sprintf("%s (%d)", label, s.count)
}
func (s statusItem) Description() string { return "" }
func (s statusItem) FilterValue() string { return string(s.status) }

type ticketItem struct{ t *ticket.Ticket }

func (it ticketItem) Title() string {
	agent := it.t.Assignment.AgentName()
	if agent == "" {
		agent = "unassigned"
	}
	return fmt.Sprintf("#%d [%s] %s (%s)", it.t.ID, it.t.Priority, it.t.Subject, agent)
}
func (it ticketItem) Description() string { return "" }
func (it ticketItem) FilterValue() string { return it.t.Subject }

// Model is the board state.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	mode   mode
	action action

	focus int

	statusList list.Model
	ticketList list.Model

	input textinput.Model

	detail bool
	status string

	awaitingDD bool
	lastDTime  time.Time
	pendingDel int64

	termWidth  int
	termHeight int

	focusDel list.DefaultDelegate
	blurDel  list.DefaultDelegate
}

// New builds a board over svc.
func New(ctx context.Context, svc *app.Service) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	dFocus := list.NewDefaultDelegate()
	dBlur := list.NewDefaultDelegate()
	dBlur.Styles.SelectedTitle = dBlur.Styles.NormalTitle
	dBlur.Styles.SelectedDesc = dBlur.Styles.NormalDesc
	dFocus.ShowDescription = false
	dBlur.ShowDescription = false
	dFocus.SetSpacing(0)
	dBlur.SetSpacing(0)

	l1 := list.New(statusItems(nil), dBlur, 24, 20)
	l1.SetShowHelp(false)
	l1.SetShowStatusBar(false)
	l1.SetFilteringEnabled(false)

	l2 := list.New([]list.Item{}, dFocus, 80, 20)
	l2.SetShowHelp(false)
	l2.SetShowStatusBar(false)

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = ""

	m := Model{
		svc:        svc,
		ctx:        ctx,
		focus:      paneTickets,
		statusList: l1,
		ticketList: l2,
		input:      ti,
		status:     "h/l panes, j/k move, enter details, n new, c chat, s status, a assign, dd delete, ? help",
		focusDel:   dFocus,
		blurDel:    dBlur,
	}
	m.updateFocusHeaders()
	return m
}

// Run starts the board full screen and blocks until it quits.
func Run(ctx context.Context, svc *app.Service) error {
	if svc == nil {
		return errors.New("can not open board, no helpdesk")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

type errMsg struct{ err error }
type ticketsLoadedMsg struct {
	all []*ticket.Ticket
}

// Init loads the tickets.
func (m Model) Init() tea.Cmd {
	return m.loadTickets()
}

func (m *Model) loadTickets() tea.Cmd {
	return func() tea.Msg {
		all, err := m.svc.AllTickets(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return ticketsLoadedMsg{all: all}
	}
}

func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Reload(m.ctx); err != nil {
			return errMsg{err}
		}
		all, err := m.svc.AllTickets(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return ticketsLoadedMsg{all: all}
	}
}

func statusItems(all []*ticket.Ticket) []list.Item {
	counts := map[ticket.Status]int{}
	for _, t := range all {
		counts[t.Status]++
	}
	items := []list.Item{statusItem{count: len(all)}}
	for _, s := range ticket.AllStatuses() {
		items = append(items, statusItem{status: s, count: counts[s]})
	}
	return items
}

func (m *Model) selectedStatus() ticket.Status {
	sel, ok := m.statusList.SelectedItem().(statusItem)
	if !ok {
		return ""
	}
	return sel.status
}

// applyTickets refreshes both panes, keeping the selected ticket when it
// is still listed.
func (m *Model) applyTickets(all []*ticket.Ticket) {
	keep := int64(0)
	if it := m.currentTicket(); it != nil {
		keep = it.ID
	}

	idx := m.statusList.Index()
	m.statusList.SetItems(statusItems(all))
	m.statusList.Select(idx)

	want := m.selectedStatus()
	items := make([]list.Item, 0, len(all))
	sel := 0
	for _, t := range all {
		if want != "" && t.Status != want {
			continue
		}
		if t.ID == keep {
			sel = len(items)
		}
		items = append(items, ticketItem{t: t})
	}
	m.ticketList.SetItems(items)
	m.ticketList.Select(sel)
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false
	prevStatus := m.selectedStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case ticketsLoadedMsg:
		m.applyTickets(msg.all)
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
			}
			skipListRouting = true
		case modeConfirm:
			cmds = append(cmds, m.answerDelete(msg.String() == "y"))
			skipListRouting = true
		case modeInsert:
			switch msg.String() {
			case "enter":
				cmds = append(cmds, m.submitInput())
				skipListRouting = true
			case "esc":
				m.closeInput()
				m.status = "Cancelled"
				skipListRouting = true
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeCommand:
			switch msg.String() {
			case "enter":
				switch strings.TrimSpace(m.input.Value()) {
				case "q", "quit", "exit":
					cmds = append(cmds, tea.Quit)
				case "":
				default:
					m.status = fmt.Sprintf("Unknown command: %s", m.input.Value())
				}
				m.closeInput()
				skipListRouting = true
			case "esc":
				m.closeInput()
				skipListRouting = true
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeNormal:
			key := msg.String()
			if key != "d" {
				m.awaitingDD = false
			}
			switch key {
			case "ctrl+c":
				cmds = append(cmds, tea.Quit)
			case ":":
				cmds = append(cmds, m.openInput(modeCommand, actionNone, "command"))
				skipListRouting = true
			case "h", "left":
				m.focus = paneStatuses
				m.updateFocusHeaders()
				skipListRouting = true
			case "l", "right":
				m.focus = paneTickets
				m.updateFocusHeaders()
				skipListRouting = true
			case "j":
				m.pane().CursorDown()
				skipListRouting = true
			case "k":
				m.pane().CursorUp()
				skipListRouting = true
			case "g":
				m.pane().Select(0)
				skipListRouting = true
			case "G":
				m.pane().Select(len(m.pane().Items()) - 1)
				skipListRouting = true
			case "enter", " ":
				m.detail = !m.detail
				skipListRouting = true
			case "n":
				cmds = append(cmds, m.openInput(modeInsert, actionCreate, "Subject of the new ticket"))
				skipListRouting = true
			case "c":
				if m.currentTicket() != nil {
					cmds = append(cmds, m.openInput(modeInsert, actionChat, "Message"))
				}
				skipListRouting = true
			case "s":
				cmds = append(cmds, m.advanceStatus())
				skipListRouting = true
			case "a":
				cmds = append(cmds, m.assignNext())
				skipListRouting = true
			case "d":
				if m.awaitingDD && time.Since(m.lastDTime) < 600*time.Millisecond {
					m.awaitingDD = false
					m.confirmDelete()
				} else {
					m.awaitingDD = true
					m.lastDTime = time.Now()
				}
				skipListRouting = true
			case "r":
				cmds = append(cmds, m.reload())
				m.status = "Reloaded"
				skipListRouting = true
			case "?":
				m.mode = modeHelp
				skipListRouting = true
			case "q":
				m.status = "Use :q or ctrl+c to quit"
				skipListRouting = true
			}
		}
	}

	if m.mode == modeNormal && !skipListRouting {
		var cmd tea.Cmd
		if m.focus == paneStatuses {
			m.statusList, cmd = m.statusList.Update(msg)
		} else {
			m.ticketList, cmd = m.ticketList.Update(msg)
		}
		cmds = append(cmds, cmd)
	}
	if m.selectedStatus() != prevStatus {
		cmds = append(cmds, m.loadTickets())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) pane() *list.Model {
	if m.focus == paneStatuses {
		return &m.statusList
	}
	return &m.ticketList
}

func (m *Model) currentTicket() *ticket.Ticket {
	if len(m.ticketList.Items()) == 0 {
		return nil
	}
	it, ok := m.ticketList.SelectedItem().(ticketItem)
	if !ok {
		return nil
	}
	return it.t
}

func (m *Model) openInput(md mode, a action, placeholder string) tea.Cmd {
	m.mode = md
	m.action = a
	m.input.Reset()
	m.input.Placeholder = placeholder
	cmd := m.input.Focus()
	return tea.Batch(cmd, textinput.Blink)
}

func (m *Model) closeInput() {
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) submitInput() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	a := m.action
	m.closeInput()
	if text == "" {
		m.status = "Cancelled"
		return nil
	}
	switch a {
	case actionCreate:
		return m.createTicket(text)
	case actionChat:
		return m.chat(text)
	}
	return nil
}

func (m *Model) session() (*account.Session, error) {
	s, err := m.svc.Session(m.ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("log in first")
	}
	return s, nil
}

func (m *Model) createTicket(subject string) tea.Cmd {
	s, err := m.session()
	if err != nil {
		return errCmd(err)
	}
	if s.Client == nil {
		return errCmd(errors.New("log in as a client to submit tickets"))
	}
	t, err := m.svc.CreateTicket(m.ctx, subject, "", ticket.PriorityMedium, s.Client.Email, s.Client.Name)
	if err != nil {
		return errCmd(err)
	}
	m.status = fmt.Sprintf("Created #%d", t.ID)
	return m.loadTickets()
}

func (m *Model) chat(text string) tea.Cmd {
	t := m.currentTicket()
	if t == nil {
		return nil
	}
	s, err := m.session()
	if err != nil {
		return errCmd(err)
	}
	role := ticket.RoleClient
	if s.Role == account.RoleAgent {
		role = ticket.RoleAgent
	}
	if _, err := m.svc.AddChatMessage(m.ctx, t.ID, s.Name(), role, text); err != nil {
		return errCmd(err)
	}
	m.status = fmt.Sprintf("Message sent on #%d", t.ID)
	return m.loadTickets()
}

// advanceStatus moves the selected ticket open, progress, resolved and
// back to open.
func (m *Model) advanceStatus() tea.Cmd {
	t := m.currentTicket()
	if t == nil {
		return nil
	}
	all := ticket.AllStatuses()
	next := all[0]
	for i, s := range all {
		if s == t.Status {
			next = all[(i+1)%len(all)]
		}
	}
	if _, err := m.svc.ChangeStatus(m.ctx, t.ID, next); err != nil {
		return errCmd(err)
	}
	m.status = fmt.Sprintf("#%d is now %s", t.ID, next.Label())
	return m.loadTickets()
}

// assignNext hands the selected ticket to the active agent after the
// current one.
func (m *Model) assignNext() tea.Cmd {
	t := m.currentTicket()
	if t == nil {
		return nil
	}
	agents, err := m.svc.ActiveAgents(m.ctx)
	if err != nil {
		return errCmd(err)
	}
	if len(agents) == 0 {
		return errCmd(errors.New("no active agents"))
	}
	next := agents[0]
	for i, a := range agents {
		if a.ID == t.Assignment.AgentID() {
			next = agents[(i+1)%len(agents)]
		}
	}
	if _, err := m.svc.AssignAgent(m.ctx, t.ID, next.ID); err != nil {
		return errCmd(err)
	}
	m.status = fmt.Sprintf("#%d assigned to %s", t.ID, next.Name)
	return m.loadTickets()
}

// confirmDelete asks on the status line before the selected ticket is
// deleted.
func (m *Model) confirmDelete() {
	t := m.currentTicket()
	if t == nil {
		return
	}
	m.pendingDel = t.ID
	m.mode = modeConfirm
	m.status = fmt.Sprintf("Delete #%d %q for good? y/n", t.ID, t.Subject)
}

// answerDelete deletes the ticket awaiting confirmation when yes is set.
func (m *Model) answerDelete(yes bool) tea.Cmd {
	id := m.pendingDel
	m.pendingDel = 0
	m.mode = modeNormal
	if !yes || id == 0 {
		m.status = "Nothing deleted"
		return nil
	}
	if err := m.svc.DeleteTicket(m.ctx, id); err != nil {
		return errCmd(err)
	}
	m.status = fmt.Sprintf("Deleted #%d", id)
	return m.loadTickets()
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

// View renders both lists, the optional detail pane and the status line.
func (m Model) View() string {
	gap := lipgloss.NewStyle().Padding(0, 1).Render
	modeStr := map[mode]string{modeNormal: "NORMAL", modeInsert: "INSERT", modeCommand: "CMD", modeHelp: "HELP", modeConfirm: "CONFIRM"}[m.mode]
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(fmt.Sprintf("[%s] %s", modeStr, m.status))

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.statusList.View(), gap(" "), m.ticketList.View())

	if m.detail {
		if t := m.currentTicket(); t != nil {
			body += "\n\n" + m.renderDetail(t)
		}
	}

	switch m.mode {
	case modeInsert:
		prompt := "New ticket: "
		if m.action == actionChat {
			prompt = "Message: "
		}
		body += "\n\n" + prompt + m.input.View()
	case modeCommand:
		body += "\n\n:" + m.input.View()
	case modeHelp:
		help := "Keys: h/l switch panes, j/k move, g/G top/bottom, enter details, n new ticket, c chat, s next status, a next agent, dd delete, r reload, :q quit"
		body += "\n\n" + lipgloss.NewStyle().Italic(true).Render(help)
	}

	return body + "\n\n" + status
}

func (m Model) renderDetail(t *ticket.Ticket) string {
	var b strings.Builder
	pp := printers.PrettyPrint{Out: &b}
	pp.Ticket(t)
	width := m.termWidth - 4
	if width < 20 {
		width = 76
	}
	panel := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	return panel.Render(wordwrap.String(strings.TrimRight(b.String(), "\n"), width))
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	left := m.termWidth / 4
	if left < 20 {
		left = 20
	}
	if left > 32 {
		left = 32
	}
	right := m.termWidth - left - 4
	if right < 20 {
		right = 20
	}
	height := m.termHeight - 4
	if m.detail {
		height = height / 2
	}
	if height < 5 {
		height = 5
	}
	m.statusList.SetSize(left, height)
	m.ticketList.SetSize(right, height)
}

// updateFocusHeaders marks the focused pane.
func (m *Model) updateFocusHeaders() {
	const on = "» "
	const off = "  "
	if m.focus == paneStatuses {
		m.statusList.Title = on + "Status"
		m.ticketList.Title = off + "Tickets"
		m.statusList.SetDelegate(m.focusDel)
		m.ticketList.SetDelegate(m.blurDel)
	} else {
		m.statusList.Title = off + "Status"
		m.ticketList.Title = on + "Tickets"
		m.statusList.SetDelegate(m.blurDel)
		m.ticketList.SetDelegate(m.focusDel)
	}
}
