// Package tracker provides the scoped session that brackets one generation
// run: it observes where the working tree started, lets the caller register
// provenance records, and on success resolves per-source git logs and
// writes the metadata document exactly once.
package tracker

import (
	"github.com/lodestone-dev/lodestone/internal/git"
	"github.com/lodestone-dev/lodestone/internal/metadata"
	"github.com/lodestone-dev/lodestone/internal/output"
)

// Session is a scoped tracker/writer bound to one output path. It has two
// states, open and closed; Finish and Abort both close it. A session never
// writes a partial document: the write happens only on Finish.
type Session struct {
	store *metadata.Store
	path  string

	// prior is the document already on disk at the output path when the
	// session opened. Its git sources supply the "since" boundaries for
	// the logs captured on Finish.
	prior *metadata.Metadata

	// startSHA is the HEAD of the working directory observed when the
	// session opened, or empty when there was none to observe (not a
	// repository, or a repository with no commits yet).
	startSHA string

	closed bool
}

// Begin opens a session that will write the metadata document to path on
// Finish. It reads any prior document at path up front; a malformed prior
// document is an immediate error, because its git sources anchor the logs
// recorded later and silently dropping them would corrupt provenance.
func Begin(store *metadata.Store, path string) (*Session, error) {
	prior, err := metadata.ReadOrEmpty(path)
	if err != nil {
		return nil, err
	}

	session := &Session{
		store: store,
		path:  path,
		prior: prior,
	}

	// Best effort: a fresh repository has no HEAD and that is fine.
	if sha, headErr := git.HeadIn(""); headErr == nil {
		session.startSHA = sha
	}

	return session, nil
}

// Finish completes the session normally: it resolves the commit log for
// every registered git source that carries a local working tree path, then
// serializes the merged result to the output path. The session is closed
// afterward even if the write fails.
func (s *Session) Finish() error {
	if s.closed {
		return output.NewUserError("tracker session already closed")
	}
	s.closed = true

	if err := s.appendGitLogs(); err != nil {
		return err
	}
	return s.store.Write(s.path)
}

// Abort closes the session without writing. Call it when the tracked body
// failed; the caller's error propagates untouched and the document on disk
// keeps its previous contents.
func (s *Session) Abort() {
	s.closed = true
}

// Track runs body inside a session around store, writing to path only when
// body returns nil. A body error aborts the session and is returned
// unchanged to the caller.
func Track(store *metadata.Store, path string, body func() error) error {
	session, err := Begin(store, path)
	if err != nil {
		return err
	}
	if err := body(); err != nil {
		session.Abort()
		return err
	}
	return session.Finish()
}

// appendGitLogs fills in the Log field of every git source that has a
// resolvable local working tree. The log runs from the source's boundary
// (exclusive) through its registered sha, newest first.
func (s *Session) appendGitLogs() error {
	priorSHAs := gitSourceSHAs(s.prior)

	for _, source := range s.store.Get().Sources {
		gitSource := source.Git
		if gitSource == nil || gitSource.LocalPath == "" || gitSource.Sha == "" {
			continue
		}

		log, err := git.FileLog(gitSource.LocalPath, gitSource.Sha, s.sinceFor(gitSource, priorSHAs), "")
		if err != nil {
			return err
		}
		gitSource.Log = log
	}
	return nil
}

// sinceFor picks the log boundary for one git source: the sha the prior
// document recorded for the same source name, else the HEAD observed when
// the session opened, provided that sha actually exists in the source's
// repository. With no usable boundary the log covers the full history up
// to the registered sha.
func (s *Session) sinceFor(source *metadata.GitSource, priorSHAs map[string]string) string {
	if sha := priorSHAs[source.Name]; sha != "" {
		return sha
	}
	if git.SHAExistsIn(source.LocalPath, s.startSHA) {
		return s.startSHA
	}
	return ""
}

// gitSourceSHAs maps git source names to shas for a document. Later
// records win when a name repeats, matching append order semantics.
func gitSourceSHAs(doc *metadata.Metadata) map[string]string {
	shas := make(map[string]string)
	for _, source := range doc.Sources {
		if source.Git != nil && source.Git.Name != "" {
			shas[source.Git.Name] = source.Git.Sha
		}
	}
	return shas
}
