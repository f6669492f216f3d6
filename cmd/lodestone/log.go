// Package main provides the entry point for the lodestone CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/lodestone-dev/lodestone/internal/git"
	"github.com/lodestone-dev/lodestone/internal/output"
)

// logResult holds the data for log output.
type logResult struct {
	Dir   string `json:"dir"`
	End   string `json:"end"`
	Since string `json:"since,omitempty"`
	Scope string `json:"scope,omitempty"`
	Log   string `json:"log"`
}

// newLogCmd creates the log command.
func newLogCmd() *cobra.Command {
	var sinceFlag string
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "log <dir> [<end-sha>]",
		Short: "Print the per-file commit log for a working tree",
		Long: `Print the commit log of a git working tree in the format recorded in
metadata documents: repeated hash/changed-path blocks, one block per file
changed per commit, newest commit first.

When no end sha is given, HEAD is used.

Examples:
  lodestone log .                          # Full history of the current tree
  lodestone log /src/googleapis abc123     # History up to a specific commit
  lodestone log . --since def456           # Commits after def456 (exclusive)
  lodestone log . --scope proto/           # Only commits touching proto/`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, args, sinceFlag, scopeFlag)
		},
	}

	cmd.Flags().StringVar(&sinceFlag, "since", "", "Start the log after this sha (exclusive)")
	cmd.Flags().StringVar(&scopeFlag, "scope", "", "Restrict the log to commits touching this path")

	return cmd
}

// runLog executes the log command.
func runLog(cmd *cobra.Command, args []string, since, scope string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	dir := args[0]
	if !git.IsRepoIn(dir) {
		err := output.NewSystemError("not a git repository: " + dir)
		printer.Error(err)
		return err
	}

	end := ""
	if len(args) > 1 {
		end = args[1]
	} else {
		head, err := git.HeadIn(dir)
		if err != nil {
			printer.Error(err)
			return err
		}
		end = head
	}

	log, err := git.FileLog(dir, end, since, scope)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(logResult{
			Dir:   dir,
			End:   end,
			Since: since,
			Scope: scope,
			Log:   log,
		})
	}

	printer.Print("%s", log)
	return nil
}
