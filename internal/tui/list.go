package tui

import (
	"fmt"
	"strings"

	"quicknotes/internal/domain"
)

// listModel is the home screen: every note with view, edit and delete
// actions, plus add.
type listModel struct {
	notes  []domain.Note
	cursor int
	loaded bool
}

func (l *listModel) setNotes(notes []domain.Note) {
	// Keep the cursor on the same note id when the list changes under it.
	var current int64
	if n, ok := l.current(); ok {
		current = n.ID
	}
	l.notes = notes
	l.loaded = true
	l.cursor = 0
	for i, n := range notes {
		if n.ID == current {
			l.cursor = i
			break
		}
	}
	l.clamp()
}

func (l *listModel) current() (domain.Note, bool) {
	if l.cursor < 0 || l.cursor >= len(l.notes) {
		return domain.Note{}, false
	}
	return l.notes[l.cursor], true
}

func (l *listModel) move(delta int) {
	l.cursor += delta
	l.clamp()
}

func (l *listModel) clamp() {
	if l.cursor >= len(l.notes) {
		l.cursor = len(l.notes) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l listModel) view(st Styles, height int) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Notes"))
	b.WriteString("\n")

	if !l.loaded {
		b.WriteString(st.Muted.Render("  Loading..."))
		return b.String()
	}
	if len(l.notes) == 0 {
		b.WriteString(st.Muted.Render("  No notes yet. Press a to add one."))
		return b.String()
	}

	start, end := window(len(l.notes), l.cursor, height)
	for i := start; i < end; i++ {
		n := l.notes[i]
		line := fmt.Sprintf("%s  %s", n.Heading, st.Muted.Render(preview(n.Text, 40)))
		if i == l.cursor {
			b.WriteString(st.Selected.Render(line))
		} else {
			b.WriteString(st.Item.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// window picks the visible slice of a list so the cursor stays on screen.
func window(total, cursor, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

// preview flattens text to one line of at most max runes.
func preview(text string, max int) string {
	line := strings.Join(strings.Fields(text), " ")
	r := []rune(line)
	if len(r) <= max {
		return line
	}
	return string(r[:max-1]) + "…"
}
