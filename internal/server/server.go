// Package server wires the MCP components and creates the server
// instance. This is the composition root: it resolves configuration,
// builds the thinking service, and registers the tool. No business
// logic lives here.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/seqthink/seqthink/internal/config"
	"github.com/seqthink/seqthink/internal/render"
	"github.com/seqthink/seqthink/internal/thinking"
	"github.com/seqthink/seqthink/internal/thinktool"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with the seqthink tool
// registered. Configuration is read once here; the logging flag is
// applied to every session the service creates.
func New(cfg config.Config) *server.MCPServer {
	var logger thinking.ThoughtLogger
	if !cfg.DisableThoughtLogging {
		logger = render.NewConsoleLogger()
	}

	svc := thinking.NewService(logger)

	s := server.NewMCPServer(
		"seqthink",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tool := thinktool.New(svc)
	s.AddTool(tool.Definition(), tool.Handle)

	return s
}
