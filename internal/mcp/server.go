package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"quicknotes/internal/service"
)

// Resource URIs.
const (
	NotesURI     = "notes://notes"
	SelectionURI = "notes://selection"
)

// Server is the MCP server for quicknotes.
// It exposes the note service as tools and resources so AI agents can read
// and edit notes.
type Server struct {
	mcp    *server.MCPServer
	notes  *service.NoteService
	logger *zap.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(notes *service.NoteService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		notes:  notes,
		logger: logger.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"quicknotes-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerNoteTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Serve runs the MCP protocol over in/out until ctx is done or in closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("starting stdio server")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// Emit implements service.EventEmitter: every note change tells connected
// clients that the note list resource changed.
func (s *Server) Emit(_ context.Context, event string, _ any) {
	s.logger.Debug("notify clients", zap.String("event", event))
	s.mcp.SendNotificationToAllClients("notifications/resources/updated", map[string]any{
		"uri": NotesURI,
	})
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// errorResult reports a user-facing failure to the agent without failing the
// JSON-RPC call.
func errorResult(text string) *mcp.CallToolResult {
	res := textResult(text)
	res.IsError = true
	return res
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
