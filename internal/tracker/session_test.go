package tracker

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lodestone-dev/lodestone/internal/metadata"
)

// initRepo creates a throwaway git repository and makes it the working
// directory, mirroring how the generation pipeline runs inside the tree
// it is generating into.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustGit(t, dir, "init", "--initial-branch=main")
	mustGit(t, dir, "config", "user.email", "test@example.com")
	mustGit(t, dir, "config", "user.name", "Test User")
	t.Chdir(dir)
	return dir
}

func mustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func commitFile(t *testing.T, dir, path string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(path), 0o644); err != nil {
		t.Fatal(err)
	}
	mustGit(t, dir, "add", path)
	mustGit(t, dir, "commit", "-m", path)
	return mustGit(t, dir, "rev-parse", "HEAD")
}

func TestSessionCapturesGitLog(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	// First session: one commit, recorded in the metadata.
	session, err := Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	shaA := commitFile(t, repo, "a")
	store.AddGitSource(shaA, "tmp", "", repo)
	if err := session.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}

	doc, err := metadata.ReadOrEmpty(metadataPath)
	if err != nil {
		t.Fatalf("ReadOrEmpty() error: %v", err)
	}
	if len(doc.Sources) != 1 || doc.Sources[0].Git == nil {
		t.Fatalf("expected one git source, got %+v", doc.Sources)
	}
	wantLog := shaA + "\na\n"
	if doc.Sources[0].Git.Log != wantLog {
		t.Errorf("captured log = %q, want %q", doc.Sources[0].Git.Log, wantLog)
	}

	// Second session after a reset: two more commits. The prior document's
	// sha for the same source name bounds the new log, so only the new
	// commits appear, newest first.
	store.Reset()
	session, err = Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	shaB := commitFile(t, repo, "code/b")
	shaC := commitFile(t, repo, "code/c")
	store.AddGitSource(shaC, "tmp", "", repo)
	if err := session.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}

	doc, err = metadata.ReadOrEmpty(metadataPath)
	if err != nil {
		t.Fatalf("ReadOrEmpty() error: %v", err)
	}
	wantLog = shaC + "\ncode/c\n" + shaB + "\ncode/b\n"
	if doc.Sources[0].Git.Log != wantLog {
		t.Errorf("captured log = %q, want %q", doc.Sources[0].Git.Log, wantLog)
	}

	// The working-tree path must be absent from the file, not null.
	raw, err := os.ReadFile(metadataPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "localPath") || strings.Contains(string(raw), "local_path") {
		t.Errorf("local path leaked into the written document:\n%s", raw)
	}
}

func TestSessionStartingPointBoundsNewSources(t *testing.T) {
	repo := initRepo(t)
	shaA := commitFile(t, repo, "a")

	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	// No prior document: the HEAD observed at Begin is the boundary for a
	// source registered during the session.
	session, err := Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	shaB := commitFile(t, repo, "b")
	store.AddGitSource(shaB, "tmp", "", repo)
	if err := session.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}

	doc, err := metadata.ReadOrEmpty(metadataPath)
	if err != nil {
		t.Fatal(err)
	}
	log := doc.Sources[0].Git.Log
	if strings.Contains(log, shaA) {
		t.Errorf("log must start after the session's observed HEAD, got %q", log)
	}
	if log != shaB+"\nb\n" {
		t.Errorf("captured log = %q, want %q", log, shaB+"\nb\n")
	}
}

func TestSessionSkipsSourcesWithoutLocalPath(t *testing.T) {
	repo := initRepo(t)
	commitFile(t, repo, "a")

	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	session, err := Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	store.AddGitSource("sha", "upstream", "https://example.com/repo.git", "")
	if err := session.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}

	doc, err := metadata.ReadOrEmpty(metadataPath)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Sources[0].Git.Log != "" {
		t.Errorf("sources without a local tree get no log, got %q", doc.Sources[0].Git.Log)
	}
}

func TestAbortWritesNothing(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	session, err := Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	store.AddGitSource("sha", "tmp", "", "")
	session.Abort()

	if _, statErr := os.Stat(metadataPath); !os.IsNotExist(statErr) {
		t.Error("Abort must not write the metadata document")
	}
}

func TestAbortPreservesPriorDocument(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")

	store := metadata.NewStore()
	store.AddGeneratorSource("gen", "1")
	if err := store.Write(metadataPath); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(metadataPath)
	if err != nil {
		t.Fatal(err)
	}

	store.Reset()
	session, err := Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	store.AddGeneratorSource("gen", "2")
	session.Abort()

	after, err := os.ReadFile(metadataPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("aborted session must leave the prior document untouched")
	}
}

func TestTrackPropagatesBodyError(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	bodyErr := errors.New("generation failed")
	err := Track(store, metadataPath, func() error {
		store.AddGeneratorSource("gen", "1")
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Errorf("Track() error = %v, want the body error unchanged", err)
	}
	if _, statErr := os.Stat(metadataPath); !os.IsNotExist(statErr) {
		t.Error("a failed body must not produce a metadata document")
	}
}

func TestTrackWritesOnSuccess(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	err := Track(store, metadataPath, func() error {
		store.AddTemplateSource("tmpl", "1")
		return nil
	})
	if err != nil {
		t.Fatalf("Track() error: %v", err)
	}

	doc, err := metadata.ReadOrEmpty(metadataPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sources) != 1 || doc.Sources[0].Template == nil {
		t.Errorf("expected the template source to be written, got %+v", doc.Sources)
	}
}

func TestBeginRejectsCorruptPriorDocument(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")
	if err := os.WriteFile(metadataPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Begin(metadata.NewStore(), metadataPath); err == nil {
		t.Error("Begin() must refuse a corrupt prior document")
	}
}

func TestFinishTwiceIsAnError(t *testing.T) {
	repo := initRepo(t)
	metadataPath := filepath.Join(repo, "lodestone.metadata")
	store := metadata.NewStore()

	session, err := Begin(store, metadataPath)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := session.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	if err := session.Finish(); err == nil {
		t.Error("second Finish() must fail: the session is closed")
	}
}
