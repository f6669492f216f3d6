package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lodestone-dev/lodestone/internal/git"
	"github.com/lodestone-dev/lodestone/internal/metadata"
)

// PathInput selects which metadata document a tool reads.
type PathInput struct {
	Path string `json:"path,omitempty" jsonschema:"metadata document path (defaults to the server's configured path)"`
}

// ShowOutput is the output for the show tool.
type ShowOutput struct {
	Path     string             `json:"path"     jsonschema:"metadata document path that was read"`
	Metadata *metadata.Metadata `json:"metadata" jsonschema:"the full metadata document"`
}

// SourceSummary is one provenance source flattened for listing.
type SourceSummary struct {
	Kind    string `json:"kind"              jsonschema:"source kind: git, generator, or template"`
	Name    string `json:"name,omitempty"    jsonschema:"source name"`
	Sha     string `json:"sha,omitempty"     jsonschema:"git commit sha (git sources only)"`
	Remote  string `json:"remote,omitempty"  jsonschema:"git remote (git sources only)"`
	Version string `json:"version,omitempty" jsonschema:"version (generator and template sources)"`
}

// SourcesOutput is the output for the sources tool.
type SourcesOutput struct {
	Count   int             `json:"count"   jsonschema:"number of sources"`
	Sources []SourceSummary `json:"sources" jsonschema:"sources in registration order"`
}

// DestinationsOutput is the output for the destinations tool.
type DestinationsOutput struct {
	Count   int                          `json:"count"   jsonschema:"number of destinations"`
	Clients []metadata.ClientDestination `json:"clients" jsonschema:"client artifacts in registration order"`
}

// GitLogInput is the input for the gitlog tool.
type GitLogInput struct {
	Dir   string `json:"dir"             jsonschema:"git working tree directory"`
	End   string `json:"end"             jsonschema:"sha the log runs up to (inclusive)"`
	Since string `json:"since,omitempty" jsonschema:"sha the log starts after (exclusive)"`
	Scope string `json:"scope,omitempty" jsonschema:"restrict the log to commits touching this path"`
}

// GitLogOutput is the output for the gitlog tool.
type GitLogOutput struct {
	Log string `json:"log" jsonschema:"repeated hash/changed-path blocks, newest commit first"`
}

// resolvePath applies the server default when the call names no path.
func resolvePath(input PathInput, metadataPath string) string {
	if input.Path != "" {
		return input.Path
	}
	return metadataPath
}

func handleShow(metadataPath string) mcp.ToolHandlerFor[PathInput, ShowOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, ShowOutput, error) {
		path := resolvePath(input, metadataPath)
		doc, err := metadata.ReadOrEmpty(path)
		if err != nil {
			return nil, ShowOutput{}, err
		}
		return nil, ShowOutput{Path: path, Metadata: doc}, nil
	}
}

func handleSources(metadataPath string) mcp.ToolHandlerFor[PathInput, SourcesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, SourcesOutput, error) {
		doc, err := metadata.ReadOrEmpty(resolvePath(input, metadataPath))
		if err != nil {
			return nil, SourcesOutput{}, err
		}
		summaries := toSourceSummaries(doc)
		return nil, SourcesOutput{Count: len(summaries), Sources: summaries}, nil
	}
}

func handleDestinations(metadataPath string) mcp.ToolHandlerFor[PathInput, DestinationsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, DestinationsOutput, error) {
		doc, err := metadata.ReadOrEmpty(resolvePath(input, metadataPath))
		if err != nil {
			return nil, DestinationsOutput{}, err
		}
		clients := make([]metadata.ClientDestination, 0, len(doc.Destinations))
		for _, dest := range doc.Destinations {
			if dest.Client != nil {
				clients = append(clients, *dest.Client)
			}
		}
		return nil, DestinationsOutput{Count: len(clients), Clients: clients}, nil
	}
}

func handleGitLog() mcp.ToolHandlerFor[GitLogInput, GitLogOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input GitLogInput) (*mcp.CallToolResult, GitLogOutput, error) {
		if input.Dir == "" || input.End == "" {
			return nil, GitLogOutput{}, errors.New("dir and end are required")
		}
		log, err := git.FileLog(input.Dir, input.End, input.Since, input.Scope)
		if err != nil {
			return nil, GitLogOutput{}, err
		}
		return nil, GitLogOutput{Log: log}, nil
	}
}

// toSourceSummaries flattens tagged source records for listing.
func toSourceSummaries(doc *metadata.Metadata) []SourceSummary {
	result := make([]SourceSummary, 0, len(doc.Sources))
	for _, source := range doc.Sources {
		switch {
		case source.Git != nil:
			result = append(result, SourceSummary{
				Kind:   "git",
				Name:   source.Git.Name,
				Sha:    source.Git.Sha,
				Remote: source.Git.Remote,
			})
		case source.Generator != nil:
			result = append(result, SourceSummary{
				Kind:    "generator",
				Name:    source.Generator.Name,
				Version: source.Generator.Version,
			})
		case source.Template != nil:
			result = append(result, SourceSummary{
				Kind:    "template",
				Name:    source.Template.Name,
				Version: source.Template.Version,
			})
		}
	}
	return result
}
