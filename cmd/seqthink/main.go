// Seqthink: sequential thinking MCP server.
//
// Exposes a single tool over stdio transport that accumulates discrete
// "thought" steps into ordered, possibly-branching sessions with
// assumption tracking. Runs with no arguments and blocks until the
// client closes the transport.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/seqthink/seqthink/internal/config"
	seqserver "github.com/seqthink/seqthink/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	s := seqserver.New(config.FromEnv())

	// All diagnostics go to stderr — stdout belongs to the MCP stdio
	// transport.
	return server.ServeStdio(s)
}
