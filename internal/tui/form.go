package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quicknotes/internal/domain"
	"quicknotes/internal/service"
)

type formFocus int

const (
	focusHeading formFocus = iota
	focusBody
)

// formModel is the create/edit screen. The service.Form owns the field
// values and the save gate; the bubbles inputs only render and edit them.
type formModel struct {
	form    *service.Form
	heading textinput.Model
	body    textarea.Model
	focus   formFocus
}

func newFormModel(form *service.Form, width int) formModel {
	ti := textinput.New()
	ti.Placeholder = "Heading (one word)"
	ti.CharLimit = 64
	ti.Prompt = ""
	ti.SetValue(form.Heading())
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.SetValue(form.Text())
	ta.Blur()

	m := formModel{form: form, heading: ti, body: ta, focus: focusHeading}
	m.setWidth(width)
	return m
}

func (m *formModel) setWidth(width int) {
	if width <= 0 {
		width = 60
	}
	m.heading.Width = width - 6
	m.body.SetWidth(width - 4)
	m.body.SetHeight(8)
}

func (m *formModel) toggleFocus() tea.Cmd {
	if m.focus == focusHeading {
		m.focus = focusBody
		m.heading.Blur()
		return m.body.Focus()
	}
	m.focus = focusHeading
	m.body.Blur()
	return m.heading.Focus()
}

// update routes a key to the focused input. Heading edits go through the
// typing filter: a refused value is rolled back so the field keeps its
// previous contents.
func (m *formModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusHeading {
		prev := m.heading.Value()
		m.heading, cmd = m.heading.Update(msg)
		if next := m.heading.Value(); next != prev && !m.form.SetHeading(next) {
			m.heading.SetValue(prev)
		}
		return cmd
	}
	m.body, cmd = m.body.Update(msg)
	m.form.SetText(m.body.Value())
	return cmd
}

func (m *formModel) submit() (domain.Request, error) {
	m.form.SetText(m.body.Value())
	return m.form.Submit()
}

func (m formModel) view(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(m.form.Title()))
	b.WriteString("\n")
	b.WriteString(st.Label.Render("Heading"))
	b.WriteString("\n")
	b.WriteString(m.heading.View())
	b.WriteString("\n\n")
	b.WriteString(st.Label.Render("Note"))
	b.WriteString("\n")
	b.WriteString(m.body.View())
	if msg := m.form.ErrorMessage(); msg != "" {
		b.WriteString("\n\n")
		b.WriteString(st.Error.Render(msg))
	}
	return b.String()
}
