package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
	"quicknotes/internal/service"
)

func (s *Server) registerNoteTools() {
	// ── list_notes ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note, ordered by id"),
	), s.handleListNotes)

	// ── create_note ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. The heading must be a single word and the text must not be blank."),
		mcp.WithString("heading",
			mcp.Description("Single-word heading"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Note body"),
			mcp.Required(),
		),
	), s.handleCreateNote)

	// ── update_note ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the heading and text of an existing note"),
		mcp.WithNumber("id",
			mcp.Description("ID of the note"),
			mcp.Required(),
		),
		mcp.WithString("heading",
			mcp.Description("Single-word heading"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Note body"),
			mcp.Required(),
		),
	), s.handleUpdateNote)

	// ── delete_note ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id. Deleting a missing note does nothing."),
		mcp.WithNumber("id",
			mcp.Description("ID of the note"),
			mcp.Required(),
		),
	), s.handleDeleteNote)

	// ── view_note ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("view_note",
		mcp.WithDescription("Show a note and make it the current selection"),
		mcp.WithNumber("id",
			mcp.Description("ID of the note"),
			mcp.Required(),
		),
	), s.handleViewNote)
}

func (s *Server) handleListNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return jsonResult(notes)
}

func (s *Server) handleCreateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	n, err := s.notes.CreateNote(ctx, domain.Note{
		Heading: stringArg(args, "heading"),
		Text:    stringArg(args, "text"),
	})
	if err != nil {
		return s.failure("create note", err)
	}
	return jsonResult(n)
}

func (s *Server) handleUpdateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := idArg(args, "id")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if _, err := s.notes.Find(ctx, id); err != nil {
		return s.failure("update note", err)
	}
	n := domain.Note{ID: id, Heading: stringArg(args, "heading"), Text: stringArg(args, "text")}
	if err := s.notes.Save(ctx, n); err != nil {
		return s.failure("update note", err)
	}
	return jsonResult(n)
}

func (s *Server) handleDeleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(req.GetArguments(), "id")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	n, err := s.notes.Find(ctx, id)
	if err != nil {
		return s.failure("delete note", err)
	}
	if err := s.notes.Remove(ctx, n); err != nil {
		return s.failure("delete note", err)
	}
	return textResult(fmt.Sprintf("Note %d deleted", id)), nil
}

func (s *Server) handleViewNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(req.GetArguments(), "id")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	n, err := s.notes.Find(ctx, id)
	if err != nil {
		return s.failure("view note", err)
	}
	s.notes.Select(n)
	return jsonResult(n)
}

// failure turns caller mistakes into tool errors the agent can read and
// everything else into a protocol error.
func (s *Server) failure(op string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, service.ErrInvalidNote) || errs.CodeOf(err) == errs.NotFound {
		return errorResult(errs.MessageOf(err)), nil
	}
	return nil, fmt.Errorf("%s: %s", op, errs.MessageOf(err))
}
