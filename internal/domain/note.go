package domain

import "context"

// Note is a user-authored record with a single-word heading and a free-text body.
// ID 0 means the store has not assigned one yet.
type Note struct {
	ID      int64  `json:"id" yaml:"id" bson:"_id"`
	Heading string `json:"heading" yaml:"heading" bson:"heading"`
	Text    string `json:"text" yaml:"text" bson:"text"`
}

// EmptyNote is returned when no note has been selected.
var EmptyNote = Note{}

// IsEmpty reports whether n is the empty sentinel.
func (n Note) IsEmpty() bool {
	return n == EmptyNote
}

// NoteStore is durable keyed storage for notes.
//
// Mutations report whether a row changed. Inserting an existing id, and
// updating or deleting an absent id, are no-ops that return (false, nil).
// The store does not validate headings or bodies.
type NoteStore interface {
	Insert(ctx context.Context, n *Note) (bool, error)
	Update(ctx context.Context, n Note) (bool, error)
	Delete(ctx context.Context, n Note) (bool, error)
	List(ctx context.Context) ([]Note, error)
	Close() error
}

// ObservableNoteStore is a NoteStore whose listing can be followed live.
type ObservableNoteStore interface {
	NoteStore
	// ListAll emits the current notes immediately and again after every change.
	// The channel is closed when ctx is done.
	ListAll(ctx context.Context) (<-chan []Note, error)
}
