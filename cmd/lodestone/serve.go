// Package main provides the entry point for the lodestone CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	lodestonemcp "github.com/lodestone-dev/lodestone/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run lodestone as a Model Context Protocol (MCP) server over stdio.

This exposes provenance queries as MCP tools that any MCP-capable agent
environment can use (Claude Code, Cursor, Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "lodestone": {
        "command": "lodestone",
        "args": ["serve"]
      }
    }
  }

Available tools: show, sources, destinations, gitlog`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := lodestonemcp.NewServer(buildVersion(), defaultMetadataPath(nil))
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
