// Package mcp provides a Model Context Protocol server for lodestone.
// It exposes read-only provenance queries as MCP tools so any MCP-capable
// agent can inspect what produced a set of generated files.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with all lodestone tools registered.
// Tools read the metadata document at metadataPath unless the call names
// another path explicitly.
func NewServer(version string, metadataPath string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "lodestone",
		Version: version,
	}, nil)
	registerTools(server, metadataPath)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all lodestone tools to the server.
func registerTools(server *mcp.Server, metadataPath string) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "show",
		Description: "Read a lodestone metadata document and return it whole: update time, provenance sources, and client destinations.",
		Annotations: readOnlyAnnotations(),
	}, handleShow(metadataPath))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sources",
		Description: "List the provenance sources (git commits, generators, templates) recorded in a metadata document.",
		Annotations: readOnlyAnnotations(),
	}, handleSources(metadataPath))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "destinations",
		Description: "List the generated API client artifacts recorded in a metadata document.",
		Annotations: readOnlyAnnotations(),
	}, handleDestinations(metadataPath))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "gitlog",
		Description: "Return the per-file commit log for a git working tree, formatted as hash/path blocks newest first. Optionally bounded by a since sha and scoped to a path.",
		Annotations: readOnlyAnnotations(),
	}, handleGitLog())
}
