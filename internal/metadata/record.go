// Package metadata provides the provenance record schema, the accumulating
// store, and serialization for the lodestone metadata document.
package metadata

// GitSource identifies a git commit that contributed to generated output.
type GitSource struct {
	Sha    string `json:"sha,omitempty"`
	Name   string `json:"name,omitempty"`
	Remote string `json:"remote,omitempty"`
	// Log holds the formatted commit log captured for this source:
	// repeated "{hash}\n{changed-path}\n" blocks, newest first.
	Log string `json:"log,omitempty"`
	// LocalPath is the working tree the sha was resolved in. It is only
	// meaningful inside the process that set it (it is used to query git)
	// and is never serialized: a reader of the document could not
	// reproduce it.
	LocalPath string `json:"-"`
}

// GeneratorSource identifies the code generator that produced output.
type GeneratorSource struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// TemplateSource identifies the template set that produced output.
type TemplateSource struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// Source is a tagged union: exactly one field is non-nil per record.
type Source struct {
	Git       *GitSource       `json:"git,omitempty"`
	Generator *GeneratorSource `json:"generator,omitempty"`
	Template  *TemplateSource  `json:"template,omitempty"`
}

// ClientDestination describes one generated API client artifact.
// All fields are free-form identifying strings; no cross-validation.
type ClientDestination struct {
	Source     string `json:"source,omitempty"`
	APIName    string `json:"apiName,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
	Language   string `json:"language,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Config     string `json:"config,omitempty"`
}

// Destination is a tagged union with a single variant today.
type Destination struct {
	Client *ClientDestination `json:"client,omitempty"`
}

// Metadata is the root document: the ordered provenance record of one
// generation run. Record order reflects registration order; repeated
// registrations append rather than replace.
type Metadata struct {
	UpdateTime   string        `json:"updateTime,omitempty"`
	Sources      []Source      `json:"sources,omitempty"`
	Destinations []Destination `json:"destinations,omitempty"`
}

// Equal reports whether two documents hold structurally equal sources and
// destinations in the same order. UpdateTime is excluded: it is refreshed
// on every write and carries no provenance meaning.
func (m *Metadata) Equal(other *Metadata) bool {
	if len(m.Sources) != len(other.Sources) || len(m.Destinations) != len(other.Destinations) {
		return false
	}
	for i := range m.Sources {
		if !sourceEqual(m.Sources[i], other.Sources[i]) {
			return false
		}
	}
	for i := range m.Destinations {
		if !destinationEqual(m.Destinations[i], other.Destinations[i]) {
			return false
		}
	}
	return true
}

func sourceEqual(a, b Source) bool {
	switch {
	case a.Git != nil && b.Git != nil:
		return *a.Git == *b.Git
	case a.Generator != nil && b.Generator != nil:
		return *a.Generator == *b.Generator
	case a.Template != nil && b.Template != nil:
		return *a.Template == *b.Template
	}
	return a == Source{} && b == Source{}
}

func destinationEqual(a, b Destination) bool {
	if a.Client != nil && b.Client != nil {
		return *a.Client == *b.Client
	}
	return a.Client == nil && b.Client == nil
}
