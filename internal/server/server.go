// Package server exposes a bar over the Model Context Protocol.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/wsbar/internal/bar"
	"github.com/mj1618/wsbar/internal/render"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Version   string
}

// Server wraps the MCP server around a bar.
type Server struct {
	bar   *bar.Bar
	cache *StateCache
	style render.Style
	mcp   *mcpserver.MCPServer
}

// New creates a server with every wsbar tool registered.
func New(b *bar.Bar, cfg Config) *Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		bar:   b,
		cache: NewStateCache(cfg.CacheTTL),
		style: render.DefaultStyle(),
	}
	s.mcp = mcpserver.NewMCPServer("wsbar", version)
	s.registerTools()
	return s
}

// Invalidate drops cached state. Call it after the bar reconciled outside
// of the ingest tool.
func (s *Server) Invalidate() { s.cache.Invalidate() }

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("state",
			mcp.WithDescription("Show what the bar currently displays: per output, the workspace label and the ordered window nodes with their markers"),
			mcp.WithString("output", mcp.Description("Only show this output")),
			mcp.WithString("format", mcp.Description("Response format: yaml, json (default: yaml)")),
		),
		s.handleState,
	)

	s.mcp.AddTool(
		mcp.NewTool("outputs",
			mcp.WithDescription("List the outputs the bar is drawn on"),
		),
		s.handleOutputs,
	)

	s.mcp.AddTool(
		mcp.NewTool("ingest",
			mcp.WithDescription("Apply one window-manager event and reconcile. Kinds: window_upsert, window_delete, workspace_upsert, workspace_delete"),
			mcp.WithString("event", mcp.Description(`JSON event, e.g. {"kind":"window_delete","id":4}`), mcp.Required()),
			mcp.WithBoolean("reconcile", mcp.Description("Reconcile after applying (default: true)")),
		),
		s.handleIngest,
	)

	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Click a displayed window node, which asks the window manager to focus that window"),
			mcp.WithNumber("id", mcp.Description("Window ID"), mcp.Required()),
			mcp.WithNumber("button", mcp.Description("Pointer button (default: 1)")),
		),
		s.handleFocus,
	)

	s.mcp.AddTool(
		mcp.NewTool("render",
			mcp.WithDescription("Render the bar as a PNG image"),
			mcp.WithString("output", mcp.Description("Only render this output")),
		),
		s.handleRender,
	)
}
