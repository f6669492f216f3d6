package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lodestone-dev/lodestone/internal/output"
)

// Write serializes the store's live document as JSON at path, creating or
// overwriting the file. Before marshaling it stamps UpdateTime with the
// current UTC time and drops the process-local working tree paths from
// every git source; the written document contains only facts a reader can
// verify independently.
func (s *Store) Write(path string) error {
	s.doc.UpdateTime = time.Now().UTC().Format(time.RFC3339)
	clearLocalPaths(s.doc)

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return output.NewSystemErrorWithCause("failed to serialize metadata", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("failed to write metadata to %s", path), err)
	}
	return nil
}

// clearLocalPaths strips the working-tree paths from the live document so
// the in-memory state matches what a reader of the file will see.
// The LocalPath field is additionally excluded from marshaling by its
// struct tag.
func clearLocalPaths(doc *Metadata) {
	for i := range doc.Sources {
		if doc.Sources[i].Git != nil {
			doc.Sources[i].Git.LocalPath = ""
		}
	}
}

// ReadOrEmpty reads and parses the metadata document at path. A missing
// file is not an error: it yields an empty document, the same state a
// fresh store starts in. A file that is not valid JSON is an error; a
// corrupt provenance record must not be mistaken for an absent one.
//
// Parsing is tolerant of schema drift: fields written by older or newer
// versions of the tool (such as the retired newFiles list) are ignored
// rather than rejected.
func ReadOrEmpty(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Metadata{}, nil
		}
		return nil, output.NewSystemErrorWithCause(fmt.Sprintf("failed to read metadata from %s", path), err)
	}

	var doc Metadata
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, output.NewCorruptError(fmt.Sprintf("malformed metadata document at %s", path), err)
	}
	return &doc, nil
}
