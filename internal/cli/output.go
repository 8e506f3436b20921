package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
)

var (
	idColor      = color.New(color.FgCyan)
	headingColor = color.New(color.Bold)
	okColor      = color.New(color.FgGreen)
	mutedColor   = color.New(color.FgHiBlack)
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.New(errs.InvalidArgument, fmt.Sprintf("invalid note id %q", s))
	}
	return id, nil
}

func printNoteLine(w io.Writer, n domain.Note) {
	idColor.Fprintf(w, "%4d  ", n.ID)
	headingColor.Fprint(w, n.Heading)
	fmt.Fprint(w, "  ")
	mutedColor.Fprintln(w, firstLine(n.Text, 60))
}

func printNote(w io.Writer, n domain.Note) {
	idColor.Fprintf(w, "#%d ", n.ID)
	headingColor.Fprintln(w, n.Heading)
	fmt.Fprintln(w)
	fmt.Fprintln(w, n.Text)
}

func success(w io.Writer, format string, a ...any) {
	okColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", a...)
}

func firstLine(text string, max int) string {
	line := strings.Join(strings.Fields(text), " ")
	r := []rune(line)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return line
}
