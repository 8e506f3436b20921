package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"quicknotes/internal/domain"
	"quicknotes/internal/storage"
)

func newTestStore(t *testing.T) *storage.NoteStore {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	store := storage.NewNoteStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

// ─────────────────────────────────────────────────────────────
// NoteStore (SQLite)
// ─────────────────────────────────────────────────────────────

func TestNoteStore_InsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := domain.Note{Heading: "Groceries", Text: "Milk, eggs"}
	changed, err := store.Insert(ctx, &first)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotZero(t, first.ID)

	second := domain.Note{Heading: "Todo", Text: "Call mum"}
	_, err = store.Insert(ctx, &second)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{first, second}, notes)
}

func TestNoteStore_ListEmpty(t *testing.T) {
	notes, err := newTestStore(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestNoteStore_DuplicateInsertKeepsFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rapid.Check(t, func(t *rapid.T) {
		n1 := domain.Note{
			Heading: rapid.StringMatching(`[a-z]{1,12}`).Draw(t, "h1"),
			Text:    rapid.String().Draw(t, "t1"),
		}
		_, err := store.Insert(ctx, &n1)
		if err != nil {
			t.Fatalf("insert n1: %v", err)
		}

		n2 := domain.Note{
			ID:      n1.ID,
			Heading: rapid.StringMatching(`[A-Z]{1,12}`).Draw(t, "h2"),
			Text:    rapid.String().Draw(t, "t2"),
		}
		changed, err := store.Insert(ctx, &n2)
		if err != nil {
			t.Fatalf("duplicate insert returned error: %v", err)
		}
		if changed {
			t.Fatalf("duplicate insert reported a change")
		}

		notes, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var found *domain.Note
		for i := range notes {
			if notes[i].ID == n1.ID {
				found = &notes[i]
			}
		}
		if found == nil || *found != n1 {
			t.Fatalf("stored record = %+v, want %+v", found, n1)
		}
	})
}

func TestNoteStore_InsertWithFreeExplicitID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	n := domain.Note{ID: 42, Heading: "Imported", Text: "from backup"}
	changed, err := store.Insert(ctx, &n)
	require.NoError(t, err)
	assert.True(t, changed)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{n}, notes)
}

func TestNoteStore_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	n := domain.Note{Heading: "Groceries", Text: "Milk, eggs"}
	_, err := store.Insert(ctx, &n)
	require.NoError(t, err)

	n.Text = "Milk, eggs, bread"
	changed, err := store.Update(ctx, n)
	require.NoError(t, err)
	assert.True(t, changed)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{n}, notes)
}

func TestNoteStore_UpdateAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	existing := domain.Note{Heading: "Keep", Text: "me"}
	_, err := store.Insert(ctx, &existing)
	require.NoError(t, err)

	changed, err := store.Update(ctx, domain.Note{ID: existing.ID + 100, Heading: "Ghost", Text: "boo"})
	require.NoError(t, err)
	assert.False(t, changed)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{existing}, notes)
}

func TestNoteStore_DeleteAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	existing := domain.Note{Heading: "Keep", Text: "me"}
	_, err := store.Insert(ctx, &existing)
	require.NoError(t, err)

	changed, err := store.Delete(ctx, domain.Note{ID: existing.ID + 1})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = store.Delete(ctx, existing)
	require.NoError(t, err)
	assert.True(t, changed)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "notes.db")

	db, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	store := storage.NewNoteStore(db)
	n := domain.Note{Heading: "Durable", Text: "still here"}
	_, err = store.Insert(ctx, &n)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	reopened := storage.NewNoteStore(db)
	defer reopened.Close()

	notes, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{n}, notes)
	assert.Equal(t, "sqlite", reopened.DB().Dialect())
	assert.Equal(t, path, reopened.DB().Path())
}

func TestNoteStore_ClosedStoreReturnsStorageError(t *testing.T) {
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	store := storage.NewNoteStore(db)
	require.NoError(t, store.Close())

	_, err = store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note store: list notes")
}
