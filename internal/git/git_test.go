package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lodestone-dev/lodestone/internal/output"
)

// initRepo creates a throwaway git repository in a temp directory.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustGit(t, dir, "init", "--initial-branch=main")
	mustGit(t, dir, "config", "user.email", "test@example.com")
	mustGit(t, dir, "config", "user.name", "Test User")
	return dir
}

// mustGit runs a git command in dir, failing the test on error.
func mustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// writeRepoFile creates a file inside the repository, parents included.
func writeRepoFile(t *testing.T, dir, path string) {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(path), 0o644); err != nil {
		t.Fatal(err)
	}
}

// commitFile writes a file and commits it, returning the commit sha.
func commitFile(t *testing.T, dir, path string) string {
	t.Helper()
	writeRepoFile(t, dir, path)
	mustGit(t, dir, "add", path)
	mustGit(t, dir, "commit", "-m", path)
	return mustGit(t, dir, "rev-parse", "HEAD")
}

func TestRunIn(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantErr       bool
		checkExitCode int
	}{
		{
			name:    "git version succeeds",
			args:    []string{"version"},
			wantErr: false,
		},
		{
			name:          "invalid git command",
			args:          []string{"invalid-command-that-does-not-exist"},
			wantErr:       true,
			checkExitCode: output.ExitSystemError,
		},
	}

	dir := initRepo(t)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			out, runErr := RunIn(dir, testCase.args...)
			if testCase.wantErr {
				if runErr == nil {
					t.Fatal("RunIn() expected error, got nil")
				}
				var exitErr *output.ExitError
				if !errors.As(runErr, &exitErr) {
					t.Fatalf("RunIn() error should be *output.ExitError, got %T", runErr)
				}
				if exitErr.Code != testCase.checkExitCode {
					t.Errorf("RunIn() exit code = %d, want %d", exitErr.Code, testCase.checkExitCode)
				}
				return
			}
			if runErr != nil {
				t.Fatalf("RunIn() unexpected error: %v", runErr)
			}
			if out == "" {
				t.Error("RunIn() expected non-empty output for 'git version'")
			}
		})
	}
}

func TestIsRepoIn(t *testing.T) {
	if !IsRepoIn(initRepo(t)) {
		t.Error("IsRepoIn() = false for a fresh repository")
	}
	if IsRepoIn(t.TempDir()) {
		t.Error("IsRepoIn() = true for a plain directory")
	}
}

func TestHeadIn(t *testing.T) {
	dir := initRepo(t)

	// No commits yet: HEAD is unresolvable and that is an explicit error.
	if _, err := HeadIn(dir); err == nil {
		t.Error("HeadIn() on an empty repository must fail")
	}

	sha := commitFile(t, dir, "a")
	head, err := HeadIn(dir)
	if err != nil {
		t.Fatalf("HeadIn() error: %v", err)
	}
	if head != sha {
		t.Errorf("HeadIn() = %q, want %q", head, sha)
	}
}

func TestSHAExistsIn(t *testing.T) {
	dir := initRepo(t)
	sha := commitFile(t, dir, "a")

	if !SHAExistsIn(dir, sha) {
		t.Error("SHAExistsIn() = false for an existing commit")
	}
	if SHAExistsIn(dir, "0123456789012345678901234567890123456789") {
		t.Error("SHAExistsIn() = true for an unknown sha")
	}
	if SHAExistsIn(dir, "") {
		t.Error("SHAExistsIn() = true for an empty sha")
	}
}
