package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thomas-vilte/matepr/internal/tools"
	"github.com/thomas-vilte/matepr/internal/version"
)

const serverName = "matepr"

// ToolCaller is the part of the dispatcher the transport needs.
type ToolCaller interface {
	Catalog() []tools.Tool
	Call(ctx context.Context, name string, rawArgs json.RawMessage) tools.Envelope
}

// Server exposes the tool catalog over the MCP stdio transport.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

func NewServer(caller ToolCaller, logger *slog.Logger) *Server {
	s := server.NewMCPServer(serverName, version.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, t := range caller.Catalog() {
		s.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, t.InputSchema), toolHandler(caller, t.Name))
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Server{mcp: s, logger: logger}
}

// toolHandler answers with the envelope as text. Failed envelopes are flagged with IsError so agents notice them.
func toolHandler(caller ToolCaller, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawArgs, err := json.Marshal(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(tools.Envelope{"success": false, "error": "invalid tool arguments"}.JSON()), nil
		}

		env := caller.Call(ctx, name, rawArgs)
		if !env.Success() {
			return mcp.NewToolResultError(env.JSON()), nil
		}
		return mcp.NewToolResultText(env.JSON()), nil
	}
}

// HandleMessage processes a single JSON-RPC message. Serve uses the same path for every line read from stdin.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, raw)
}

// Serve blocks until ctx is cancelled or in is closed. Nothing but protocol frames may be written to out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(&slogWriter{logger: s.logger}, "", 0))

	s.logger.InfoContext(ctx, "mcp server listening on stdio", "version", version.Version)
	return stdio.Listen(ctx, in, out)
}

// slogWriter adapts the transport's *log.Logger output to slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w *slogWriter) Write(p []byte) (int, error) {
	w.logger.Error("mcp transport error", "error", string(p))
	return len(p), nil
}
