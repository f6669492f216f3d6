// Package main provides the entry point for the lodestone CLI.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lodestone-dev/lodestone/internal/metadata"
	"github.com/lodestone-dev/lodestone/internal/output"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	var logFlag bool

	cmd := &cobra.Command{
		Use:   "show [<path>]",
		Short: "Display a metadata document",
		Long: `Display the provenance metadata document for a generated tree.

Without a path argument, reads ` + "`lodestone.metadata`" + ` (or the file named in
the configuration). A missing document is reported as empty, not an error.

Examples:
  lodestone show                      # Show lodestone.metadata
  lodestone show out/synth.metadata   # Show a specific document
  lodestone show --log                # Include captured git logs
  lodestone show --json               # Raw document as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, logFlag)
		},
	}

	cmd.Flags().BoolVar(&logFlag, "log", false, "Include captured git logs in the output")

	return cmd
}

// runShow executes the show command.
func runShow(cmd *cobra.Command, args []string, showLog bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	path := defaultMetadataPath(args)
	doc, err := metadata.ReadOrEmpty(path)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(doc)
	}

	renderMetadata(printer, path, doc, showLog)
	return nil
}

// renderMetadata prints a human-readable view of a metadata document.
func renderMetadata(printer *output.Printer, path string, doc *metadata.Metadata, showLog bool) {
	styles := printer.Styles()

	printer.Println(styles.Title.Render(path))
	if doc.UpdateTime != "" {
		printer.Field("updated", doc.UpdateTime)
	}
	if len(doc.Sources) == 0 && len(doc.Destinations) == 0 {
		printer.Println(styles.Dim.Render("(empty document)"))
		return
	}

	if len(doc.Sources) > 0 {
		printer.Println()
		printer.Println(styles.Bold.Render("Sources:"))
		for _, source := range doc.Sources {
			renderSource(printer, source, showLog)
		}
	}

	if len(doc.Destinations) > 0 {
		printer.Println()
		printer.Println(styles.Bold.Render("Destinations:"))
		for _, dest := range doc.Destinations {
			if dest.Client == nil {
				continue
			}
			client := dest.Client
			printer.Print("  %s %s/%s (%s, generator %s, config %s)\n",
				styles.Key.Render(client.Source), client.APIName, client.APIVersion,
				client.Language, client.Generator, client.Config)
		}
	}
}

// renderSource prints one tagged source record.
func renderSource(printer *output.Printer, source metadata.Source, showLog bool) {
	styles := printer.Styles()

	switch {
	case source.Git != nil:
		gitSource := source.Git
		printer.Print("  %s %s %s %s\n",
			styles.Key.Render("git"), gitSource.Name,
			styles.Dim.Render(shortSHA(gitSource.Sha)), gitSource.Remote)
		if showLog && gitSource.Log != "" {
			for _, line := range strings.Split(strings.TrimRight(gitSource.Log, "\n"), "\n") {
				printer.Print("      %s\n", styles.Dim.Render(line))
			}
		}
	case source.Generator != nil:
		printer.Print("  %s %s %s\n",
			styles.Key.Render("generator"), source.Generator.Name, source.Generator.Version)
	case source.Template != nil:
		printer.Print("  %s %s %s\n",
			styles.Key.Render("template"), source.Template.Name, source.Template.Version)
	}
}

// shortSHA abbreviates a commit sha for display.
func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
