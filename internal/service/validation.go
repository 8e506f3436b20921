package service

import (
	"regexp"
	"strings"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
)

// InvalidNoteMessage is shown whenever a note fails the save gate.
const InvalidNoteMessage = "Heading must be a single word."

// ErrInvalidNote is returned for notes whose heading is not exactly one word
// or whose body is blank. Match it with errors.Is.
var ErrInvalidNote = errs.New(errs.InvalidArgument, InvalidNoteMessage)

var whitespaceRun = regexp.MustCompile(`\s+`)

func words(s string) []string {
	return whitespaceRun.Split(s, -1)
}

// ValidateNote is the save gate: the trimmed heading must be a single
// non-empty token and the body must contain something other than whitespace.
func ValidateNote(n domain.Note) error {
	heading := strings.TrimSpace(n.Heading)
	if heading == "" || len(words(heading)) != 1 {
		return ErrInvalidNote
	}
	if strings.TrimSpace(n.Text) == "" {
		return ErrInvalidNote
	}
	return nil
}

// AcceptHeadingInput reports whether a heading field may take the proposed
// value while the user is typing. The untrimmed value is split, so leading or
// trailing whitespace is refused along with inner spaces.
func AcceptHeadingInput(proposed string) bool {
	return strings.TrimSpace(proposed) != "" && len(words(proposed)) <= 1
}
