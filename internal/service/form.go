package service

import "quicknotes/internal/domain"

// Form titles.
const (
	TitleCreate = "Create Note"
	TitleEdit   = "Edit Note"
)

// Form holds the state of the create/edit screen: the fields being edited,
// the id of the note under edit and the last validation message.
type Form struct {
	editing bool
	id      int64
	heading string
	text    string
	errMsg  string
}

// NewCreateForm starts an empty form for a new note.
func NewCreateForm() *Form {
	return &Form{}
}

// NewEditForm starts a form pre-filled from n.
func NewEditForm(n domain.Note) *Form {
	return &Form{editing: true, id: n.ID, heading: n.Heading, text: n.Text}
}

func (f *Form) Title() string {
	if f.editing {
		return TitleEdit
	}
	return TitleCreate
}

func (f *Form) Editing() bool { return f.editing }

func (f *Form) Heading() string { return f.heading }

func (f *Form) Text() string { return f.text }

// ErrorMessage is the message from the last failed Submit, or "".
func (f *Form) ErrorMessage() string { return f.errMsg }

// SetHeading applies the typing filter. A refused value leaves the field as it
// was and returns false.
func (f *Form) SetHeading(v string) bool {
	if !AcceptHeadingInput(v) {
		return false
	}
	f.heading = v
	return true
}

// SetText accepts any value.
func (f *Form) SetText(v string) {
	f.text = v
}

// Submit runs the save gate. On success it returns a Create or Edit request
// and clears the error message; on failure it records InvalidNoteMessage.
func (f *Form) Submit() (domain.Request, error) {
	n := domain.Note{ID: f.id, Heading: f.heading, Text: f.text}
	if err := ValidateNote(n); err != nil {
		f.errMsg = InvalidNoteMessage
		return domain.Request{}, err
	}
	f.errMsg = ""
	if f.editing {
		return domain.NewEdit(f.id, f.heading, f.text), nil
	}
	return domain.NewCreate(f.heading, f.text), nil
}
