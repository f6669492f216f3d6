package git

import (
	"strings"

	"github.com/lodestone-dev/lodestone/internal/output"
)

// FileLog returns the commit log of the repository rooted at dir, formatted
// as repeated "{hash}\n{changed-path}\n" blocks: one block per file changed
// per commit, newest commit first.
//
// The log covers commits reachable from endSHA. When sinceSHA is non-empty
// it bounds the range (exclusive), as in "since..end". When pathScope is
// non-empty the log is restricted to commits touching that path.
//
// Any underlying git failure is returned to the caller; a missing or wrong
// log is a provenance correctness issue, never papered over.
func FileLog(dir, endSHA, sinceSHA, pathScope string) (string, error) {
	rangeSpec := endSHA
	if sinceSHA != "" {
		rangeSpec = sinceSHA + ".." + endSHA
	}

	args := []string{"log", "--pretty=format:%H", "--name-only", rangeSpec}
	if pathScope != "" {
		args = append(args, "--", pathScope)
	}

	out, err := RunIn(dir, args...)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get git log for "+rangeSpec, err)
	}

	return formatFileLog(out), nil
}

// formatFileLog reshapes raw "git log --pretty=format:%H --name-only"
// output into hash/path blocks. The raw output interleaves a hash line, a
// blank line, then the changed paths; commits are separated by blank lines.
func formatFileLog(raw string) string {
	var sb strings.Builder

	currentHash := ""
	expectHash := true
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if expectHash || isFullSHA(line) {
			currentHash = line
			expectHash = false
			continue
		}
		sb.WriteString(currentHash)
		sb.WriteString("\n")
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// isFullSHA reports whether line looks like a full 40-character commit hash.
// Changed paths never take this shape in practice, so it is a safe marker
// for the start of the next commit block.
func isFullSHA(line string) bool {
	if len(line) != 40 {
		return false
	}
	for _, c := range line {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
