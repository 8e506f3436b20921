package tui

import (
	"strings"

	"quicknotes/internal/domain"
)

// detailModel is the read-only view of one note. The note is handed over
// when the screen opens and does not change while it is shown.
type detailModel struct {
	note domain.Note
}

func (d detailModel) view(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(d.note.Heading))
	b.WriteString("\n")
	b.WriteString(d.note.Text)
	return b.String()
}
