// Package git provides read-only Git queries via exec, scoped to a working tree.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/lodestone-dev/lodestone/internal/output"
)

// RunIn executes a git command against the working tree rooted at dir.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func RunIn(dir string, args ...string) (string, error) {
	return RunInContext(context.Background(), dir, args...)
}

// RunInContext executes a git command with the given context against the
// working tree rooted at dir. An empty dir runs in the current directory.
// Returns an *output.ExitError on failure with appropriate exit code.
func RunInContext(ctx context.Context, dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if git is not found
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		// Git command failed - include stderr in message
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepoIn checks if dir is inside a git repository.
func IsRepoIn(dir string) bool {
	_, err := RunIn(dir, "rev-parse", "--git-dir")
	return err == nil
}

// HeadIn returns the full SHA of the current HEAD commit of the working
// tree rooted at dir.
// Returns an error if dir is not a git repository or no commits exist.
func HeadIn(dir string) (string, error) {
	sha, err := RunIn(dir, "rev-parse", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get HEAD", err)
	}
	return sha, nil
}

// SHAExistsIn checks if a SHA resolves to a known object in the repository
// rooted at dir. Useful for deciding whether a recorded starting point is
// usable as a log boundary in a given tree.
func SHAExistsIn(dir, sha string) bool {
	if sha == "" {
		return false
	}
	_, err := RunIn(dir, "cat-file", "-t", sha)
	return err == nil
}
