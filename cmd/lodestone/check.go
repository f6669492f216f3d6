// Package main provides the entry point for the lodestone CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lodestone-dev/lodestone/internal/metadata"
	"github.com/lodestone-dev/lodestone/internal/output"
)

// checkResult holds the data for check output.
type checkResult struct {
	Path         string `json:"path"`
	Exists       bool   `json:"exists"`
	UpdateTime   string `json:"update_time,omitempty"`
	Sources      int    `json:"sources"`
	Destinations int    `json:"destinations"`
}

// newCheckCmd creates the check command.
func newCheckCmd() *cobra.Command {
	var requireFlag bool

	cmd := &cobra.Command{
		Use:   "check [<path>]",
		Short: "Validate a metadata document",
		Long: `Parse a metadata document and report whether it is usable.

A missing document passes (it reads as empty) unless --require is given.
A document that is not valid JSON fails with exit code 3: a corrupt
provenance record is worse than an absent one and is never glossed over.

Examples:
  lodestone check                     # Validate lodestone.metadata
  lodestone check --require           # Fail if the document is missing
  lodestone check out/synth.metadata  # Validate a specific document`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, requireFlag)
		},
	}

	cmd.Flags().BoolVar(&requireFlag, "require", false, "Fail when the document does not exist")

	return cmd
}

// runCheck executes the check command.
func runCheck(cmd *cobra.Command, args []string, require bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	path := defaultMetadataPath(args)

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if !exists && require {
		err := output.NewUserError("metadata document not found: " + path)
		printer.Error(err)
		return err
	}

	doc, err := metadata.ReadOrEmpty(path)
	if err != nil {
		printer.Error(err)
		return err
	}

	result := checkResult{
		Path:         path,
		Exists:       exists,
		UpdateTime:   doc.UpdateTime,
		Sources:      len(doc.Sources),
		Destinations: len(doc.Destinations),
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	return printer.Success(map[string]any{
		"message": fmt.Sprintf("%s: ok (%d sources, %d destinations)",
			path, result.Sources, result.Destinations),
	})
}
