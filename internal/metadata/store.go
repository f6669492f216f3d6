package metadata

// Store accumulates provenance records for one generation run. It is the
// explicit counterpart of what would otherwise be process-global state:
// the caller (normally a tracker session) owns it and brackets independent
// runs with Reset.
//
// Store is not safe for concurrent use; callers run one tracked session
// at a time.
type Store struct {
	doc *Metadata

	// trackObsoleteFiles is read by the obsolete-file collaborator, not by
	// anything in this package. It deliberately survives Reset.
	trackObsoleteFiles bool
}

// NewStore creates an empty store. Obsolete-file tracking defaults to off.
func NewStore() *Store {
	return &Store{doc: &Metadata{}}
}

// Reset discards all accumulated records and starts a fresh empty document.
// The obsolete-file tracking flag is independent state and is not touched.
// Idempotent.
func (s *Store) Reset() {
	s.doc = &Metadata{}
}

// Get returns the live document. Callers must not mutate it directly;
// records are added through the Add functions.
func (s *Store) Get() *Metadata {
	return s.doc
}

// AddGitSource appends a git source record. Sha and name are opaque
// identifying strings; no uniqueness is enforced across calls. localPath
// may be empty when the source was not resolved from a local working tree.
func (s *Store) AddGitSource(sha, name, remote, localPath string) {
	s.doc.Sources = append(s.doc.Sources, Source{Git: &GitSource{
		Sha:       sha,
		Name:      name,
		Remote:    remote,
		LocalPath: localPath,
	}})
}

// AddGeneratorSource appends a generator source record.
func (s *Store) AddGeneratorSource(name, version string) {
	s.doc.Sources = append(s.doc.Sources, Source{Generator: &GeneratorSource{
		Name:    name,
		Version: version,
	}})
}

// AddTemplateSource appends a template source record.
func (s *Store) AddTemplateSource(name, version string) {
	s.doc.Sources = append(s.doc.Sources, Source{Template: &TemplateSource{
		Name:    name,
		Version: version,
	}})
}

// AddClientDestination appends a client destination record.
func (s *Store) AddClientDestination(source, apiName, apiVersion, language, generator, config string) {
	s.doc.Destinations = append(s.doc.Destinations, Destination{Client: &ClientDestination{
		Source:     source,
		APIName:    apiName,
		APIVersion: apiVersion,
		Language:   language,
		Generator:  generator,
		Config:     config,
	}})
}

// TrackObsoleteFiles reports whether the run should track files that a
// previous run generated but the current one did not.
func (s *Store) TrackObsoleteFiles() bool {
	return s.trackObsoleteFiles
}

// SetTrackObsoleteFiles sets the obsolete-file tracking flag.
func (s *Store) SetTrackObsoleteFiles(track bool) {
	s.trackObsoleteFiles = track
}
