// Package mcpserver exposes the pruner as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/jsprune/pkg/config"
)

// Server wraps the MCP server and registers the jsprune tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new MCP server with all tools and prompts
// registered. A nil cfg loads the project configuration.
func NewServer(version string, cfg *config.Config, logger *slog.Logger) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.LoadOrDefault()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "jsprune",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: cfg, logger: logger}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prune_javascript",
		Description: describePrune(),
	}, s.handlePrune)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_unused_functions",
		Description: describeListUnused(),
	}, s.handleListUnused)
}
