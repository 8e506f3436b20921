package domain

// RequestKind tags a mutation request.
type RequestKind int

const (
	KindCreate RequestKind = iota + 1
	KindEdit
	KindDelete
)

func (k RequestKind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindEdit:
		return "edit"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Request is an explicit mutation intent: {Create, fields}, {Edit, id, fields}
// or {Delete, id}. Forms produce Create or Edit; the list screen produces Delete.
type Request struct {
	Kind    RequestKind
	ID      int64
	Heading string
	Text    string
}

// NewCreate builds a create request.
func NewCreate(heading, text string) Request {
	return Request{Kind: KindCreate, Heading: heading, Text: text}
}

// NewEdit builds an edit request for an existing note id.
func NewEdit(id int64, heading, text string) Request {
	return Request{Kind: KindEdit, ID: id, Heading: heading, Text: text}
}

// NewDelete builds a delete request.
func NewDelete(n Note) Request {
	return Request{Kind: KindDelete, ID: n.ID, Heading: n.Heading, Text: n.Text}
}

// Note returns the note the request describes.
func (r Request) Note() Note {
	return Note{ID: r.ID, Heading: r.Heading, Text: r.Text}
}
