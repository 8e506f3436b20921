// Package tui is the terminal front end: a note list, a create/edit form and
// a read-only detail screen, all driven through the note service.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
	"quicknotes/internal/service"
)

// Notes is the part of the note service the TUI uses.
type Notes interface {
	ObserveAll(ctx context.Context) (<-chan []domain.Note, error)
	Dispatch(req domain.Request) <-chan error
	Select(n domain.Note)
}

type screen int

const (
	screenList screen = iota
	screenForm
	screenDetail
)

// ── Messages ───────────────────────────────────────────────

type subscribedMsg struct{ ch <-chan []domain.Note }

type notesMsg []domain.Note

type observeClosedMsg struct{}

type observeFailedMsg struct{ err error }

type dispatchedMsg struct {
	kind domain.RequestKind
	err  error
}

// Model is the root bubbletea model.
type Model struct {
	ctx   context.Context
	notes Notes
	feed  <-chan []domain.Note

	screen screen
	list   listModel
	form   formModel
	detail detailModel

	status string
	errMsg string
	width  int
	height int
	styles Styles
}

// New creates the root model. Observation starts in Init and stops when ctx
// is done.
func New(ctx context.Context, notes Notes) Model {
	return Model{
		ctx:    ctx,
		notes:  notes,
		screen: screenList,
		styles: DefaultStyles(),
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, notes Notes) error {
	p := tea.NewProgram(New(ctx, notes), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.observe
}

func (m Model) observe() tea.Msg {
	ch, err := m.notes.ObserveAll(m.ctx)
	if err != nil {
		return observeFailedMsg{err: err}
	}
	return subscribedMsg{ch: ch}
}

func waitForNotes(ch <-chan []domain.Note) tea.Cmd {
	return func() tea.Msg {
		notes, ok := <-ch
		if !ok {
			return observeClosedMsg{}
		}
		return notesMsg(notes)
	}
}

// dispatch hands req to the service's writer and reports the outcome later.
func (m Model) dispatch(req domain.Request) tea.Cmd {
	result := m.notes.Dispatch(req)
	return func() tea.Msg {
		return dispatchedMsg{kind: req.Kind, err: <-result}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.screen == screenForm {
			m.form.setWidth(msg.Width)
		}
		return m, nil

	case subscribedMsg:
		m.feed = msg.ch
		return m, waitForNotes(m.feed)

	case notesMsg:
		m.list.setNotes(msg)
		return m, waitForNotes(m.feed)

	case observeClosedMsg:
		return m, nil

	case observeFailedMsg:
		m.errMsg = errs.MessageOf(msg.err)
		return m, nil

	case dispatchedMsg:
		if msg.err != nil {
			m.errMsg = errs.MessageOf(msg.err)
			m.status = ""
		} else {
			m.errMsg = ""
			m.status = doneStatus(msg.kind)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenForm:
			return m.updateForm(msg)
		case screenDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.screen == screenForm {
		cmd := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.list.move(-1)
	case "down", "j":
		m.list.move(1)
	case "a", "n":
		return m.openForm(service.NewCreateForm())
	case "enter", "v":
		if n, ok := m.list.current(); ok {
			m.notes.Select(n)
			m.detail = detailModel{note: n}
			m.screen = screenDetail
		}
	case "e":
		if n, ok := m.list.current(); ok {
			m.notes.Select(n)
			return m.openForm(service.NewEditForm(n))
		}
	case "d", "delete":
		if n, ok := m.list.current(); ok {
			m.status = ""
			return m, m.dispatch(domain.NewDelete(n))
		}
	}
	return m, nil
}

func (m Model) openForm(f *service.Form) (tea.Model, tea.Cmd) {
	m.form = newFormModel(f, m.width)
	m.screen = screenForm
	m.status, m.errMsg = "", ""
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "tab", "shift+tab":
		return m, m.form.toggleFocus()
	case "ctrl+s":
		req, err := m.form.submit()
		if err != nil {
			// The form shows its own message.
			return m, nil
		}
		m.screen = screenList
		return m, m.dispatch(req)
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q", "left", "h":
		m.screen = screenList
	case "e":
		return m.openForm(service.NewEditForm(m.detail.note))
	}
	return m, nil
}

func (m Model) View() string {
	var body, help string
	switch m.screen {
	case screenForm:
		body = m.form.view(m.styles)
		help = "tab switch field • ctrl+s save • esc cancel"
	case screenDetail:
		body = m.detail.view(m.styles)
		help = "e edit • esc back"
	default:
		body = m.list.view(m.styles, m.listHeight())
		help = "↑/↓ move • enter view • e edit • d delete • a add • q quit"
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("quicknotes"))
	b.WriteString("\n")
	b.WriteString(m.styles.Body.Render(body))
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(m.styles.Error.Render(m.errMsg)))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(m.styles.Status.Render(m.status)))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(help))
	return b.String()
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return 0
	}
	// header, title, padding, footer
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func doneStatus(kind domain.RequestKind) string {
	switch kind {
	case domain.KindCreate:
		return "Note created"
	case domain.KindEdit:
		return "Note saved"
	case domain.KindDelete:
		return "Note deleted"
	default:
		return ""
	}
}
