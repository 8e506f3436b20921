package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── notes://notes ──────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		NotesURI,
		"All Notes",
		mcp.WithMIMEType("application/json"),
	), s.handleNotesResource)

	// ── notes://selection ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		SelectionURI,
		"Selected Note",
		mcp.WithMIMEType("application/json"),
	), s.handleSelectionResource)
}

func (s *Server) handleNotesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return jsonContents(NotesURI, notes)
}

func (s *Server) handleSelectionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(SelectionURI, s.notes.CurrentSelection())
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
