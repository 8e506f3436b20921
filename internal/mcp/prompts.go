package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("capture_note",
		mcp.WithPromptDescription("Turn free text into a note with a single-word heading"),
		mcp.WithArgument("content",
			mcp.ArgumentDescription("What the note should say"),
			mcp.RequiredArgument(),
		),
	), s.handleCapturePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("review_notes",
		mcp.WithPromptDescription("Review every note and suggest merges, renames or deletions"),
	), s.handleReviewPrompt)
}

func (s *Server) handleCapturePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	content := req.Params.Arguments["content"]
	return &mcp.GetPromptResult{
		Description: "Capture a note",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Save the following as a quicknotes note.

1. Pick a heading that is exactly one word (no spaces), e.g. "Groceries" or "Standup".
2. Use the content below as the text, tidied but not summarised.
3. Call create_note with the heading and text.
4. If create_note reports "Heading must be a single word.", choose a different heading and retry.

Content:
%s`, content),
				},
			},
		},
	}, nil
}

func (s *Server) handleReviewPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Review notes",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Read the notes://notes resource (or call list_notes).
List notes that look like duplicates, notes whose heading no longer matches the text, and notes that look finished.
Propose changes first; only call update_note or delete_note after I confirm.`,
				},
			},
		},
	}, nil
}
