package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"quicknotes/internal/domain"
	"quicknotes/internal/storage"
)

func receive(t *testing.T, ch <-chan []domain.Note) []domain.Note {
	t.Helper()
	select {
	case notes, ok := <-ch:
		require.True(t, ok, "channel closed")
		return notes
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func assertQuiet(t *testing.T, ch <-chan []domain.Note) {
	t.Helper()
	select {
	case notes := <-ch:
		t.Fatalf("unexpected snapshot: %+v", notes)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLive_EmitsCurrentSnapshotOnSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := newTestStore(t)
	seed := domain.Note{Heading: "Groceries", Text: "Milk"}
	_, err := base.Insert(ctx, &seed)
	require.NoError(t, err)

	live := storage.NewLive(base, nil)
	ch, err := live.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{seed}, receive(t, ch))
}

func TestLive_PublishesAfterEveryChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := storage.NewLive(newTestStore(t), nil)
	ch, err := live.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, receive(t, ch))

	n := domain.Note{Heading: "Groceries", Text: "Milk, eggs"}
	_, err = live.Insert(ctx, &n)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{n}, receive(t, ch))

	n.Text = "Milk, eggs, bread"
	_, err = live.Update(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{n}, receive(t, ch))

	_, err = live.Delete(ctx, n)
	require.NoError(t, err)
	assert.Empty(t, receive(t, ch))
}

func TestLive_NoopMutationsDoNotPublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := storage.NewLive(newTestStore(t), nil)
	ch, err := live.ListAll(ctx)
	require.NoError(t, err)
	receive(t, ch)

	changed, err := live.Update(ctx, domain.Note{ID: 99, Heading: "Ghost", Text: "boo"})
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = live.Delete(ctx, domain.Note{ID: 99})
	require.NoError(t, err)
	assert.False(t, changed)

	assertQuiet(t, ch)
}

func TestLive_SlowObserverSeesLatestOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := storage.NewLive(newTestStore(t), nil)
	ch, err := live.ListAll(ctx)
	require.NoError(t, err)

	for _, h := range []string{"one", "two", "three"} {
		_, err := live.Insert(ctx, &domain.Note{Heading: h, Text: "x"})
		require.NoError(t, err)
	}

	latest := receive(t, ch)
	require.Len(t, latest, 3)
	assert.Equal(t, "three", latest[2].Heading)
	assertQuiet(t, ch)
}

func TestLive_RefreshPicksUpExternalWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "notes.db")
	db, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	live := storage.NewLive(storage.NewNoteStore(db), nil)
	defer live.Close()

	ch, err := live.ListAll(ctx)
	require.NoError(t, err)
	receive(t, ch)

	// Nothing changed yet.
	require.NoError(t, live.Refresh(ctx))
	assertQuiet(t, ch)

	otherDB, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	other := storage.NewNoteStore(otherDB)
	defer other.Close()
	n := domain.Note{Heading: "External", Text: "written elsewhere"}
	_, err = other.Insert(ctx, &n)
	require.NoError(t, err)

	require.NoError(t, live.Refresh(ctx))
	assert.Equal(t, []domain.Note{n}, receive(t, ch))
}

func TestLive_UnsubscribeOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	live := storage.NewLive(storage.NewNoteStore(db), nil)
	defer live.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := live.ListAll(ctx)
	require.NoError(t, err)
	receive(t, ch)
	assert.Equal(t, 1, live.Observers())

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, live.Observers())
}

func TestFingerprint(t *testing.T) {
	a := []domain.Note{{ID: 1, Heading: "ab", Text: "c"}}
	b := []domain.Note{{ID: 1, Heading: "a", Text: "bc"}}

	assert.Equal(t, storage.Fingerprint(a), storage.Fingerprint([]domain.Note{{ID: 1, Heading: "ab", Text: "c"}}))
	assert.NotEqual(t, storage.Fingerprint(a), storage.Fingerprint(b))
	assert.NotEqual(t, storage.Fingerprint(nil), storage.Fingerprint(a))
}
