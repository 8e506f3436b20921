package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicknotes/internal/domain"
)

type harness struct {
	t      *testing.T
	dir    string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := "store:\n  path: " + filepath.Join(dir, "notes.db") + "\n" +
		"backup:\n  dir: " + filepath.Join(dir, "backups") + "\n" +
		"watch:\n  enabled: false\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))
	return &harness{t: t, dir: dir, config: cfg}
}

func (h *harness) run(stdin string, args ...string) (int, string, string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), append([]string{"--config", h.config}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) list() []domain.Note {
	h.t.Helper()
	code, out, errOut := h.run("", "list", "--json")
	require.Equal(h.t, 0, code, errOut)
	var notes []domain.Note
	require.NoError(h.t, json.Unmarshal([]byte(out), &notes))
	return notes
}

func TestCLI_AddListEditRemove(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run("", "add", "--heading", "Groceries", "--text", "Milk, eggs")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Created note 1 (Groceries)")

	notes := h.list()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.Note{ID: 1, Heading: "Groceries", Text: "Milk, eggs"}, notes[0])

	code, out, _ = h.run("", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Groceries")

	code, _, errOut = h.run("", "edit", "1", "--text", "Milk, eggs, bread")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Milk, eggs, bread", h.list()[0].Text)

	code, out, _ = h.run("", "show", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Milk, eggs, bread")

	code, out, errOut = h.run("", "rm", "1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Deleted note 1")
	assert.Empty(t, h.list())
}

func TestCLI_ValidationErrorExitCode(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("", "add", "--heading", "Shopping list", "--text", "Milk")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Heading must be a single word.")
	assert.Empty(t, h.list())

	code, _, errOut = h.run("", "add", "--heading", "Groceries", "--text", "   ")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Heading must be a single word.")
}

func TestCLI_NotFoundExitCode(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("", "show", "42")
	assert.Equal(t, 3, code)
	assert.Contains(t, errOut, "note not found")

	code, _, _ = h.run("", "rm", "abc")
	assert.Equal(t, 2, code)
}

func TestCLI_EditNeedsAChange(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run("", "add", "--heading", "Todo", "--text", "x")
	require.Equal(t, 0, code)

	code, _, errOut := h.run("", "edit", "1")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "nothing to change")
}

func TestCLI_ExportImport(t *testing.T) {
	src := newHarness(t)
	for _, args := range [][]string{
		{"add", "--heading", "Groceries", "--text", "Milk"},
		{"add", "--heading", "Todo", "--text", "Call mum"},
	} {
		code, _, errOut := src.run("", args...)
		require.Equal(t, 0, code, errOut)
	}

	exported := filepath.Join(src.dir, "notes.yaml")
	code, _, errOut := src.run("", "export", "--output", exported)
	require.Equal(t, 0, code, errOut)

	dst := newHarness(t)
	code, out, errOut := dst.run("", "import", exported)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Imported 2 note(s)")
	assert.Equal(t, src.list(), dst.list())

	// Stdin, JSON.
	code, out, _ = dst.run(`[{"heading":"Standup","text":"10am"}]`, "import", "-")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Imported 1 note(s)")
	assert.Len(t, dst.list(), 3)
}

func TestCLI_Backup(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run("", "add", "--heading", "Groceries", "--text", "Milk")
	require.Equal(t, 0, code)

	code, out, errOut := h.run("", "backup")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, filepath.Join(h.dir, "backups", "notes-"))
}

func TestCLI_BadConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.config, []byte("store:\n  driver: oracle\n"), 0644))

	code, _, errOut := h.run("", "list")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "store.driver")
}

func TestCLI_UnknownFlag(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run("", "list", "--nope")
	assert.Equal(t, 2, code)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "yaml", formatFromPath("notes.YML"))
	assert.Equal(t, "yaml", formatFromPath("a/b/notes.yaml"))
	assert.Equal(t, "json", formatFromPath("notes.json"))
	assert.Equal(t, "json", formatFromPath("-"))
}
