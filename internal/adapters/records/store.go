// Package records implements the build record store on a flat JSON file.
package records

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildRecordStore = (*Store)(nil)

// DefaultRetention is the number of records kept per project version.
const DefaultRetention = 20

// Store implements ports.BuildRecordStore using a flat JSON file keyed by build ID.
type Store struct {
	path      string
	retention int
	mu        sync.RWMutex
	cache     map[string]domain.BuildRecord
}

// Option configures a Store.
type Option func(*Store)

// WithRetention sets how many records are kept per project version. Values below 1 are ignored.
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// NewStore creates a new BuildRecordStore backed by the file at the given path.
func NewStore(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:      filepath.Clean(path),
		retention: DefaultRetention,
		cache:     make(map[string]domain.BuildRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}

	return nil
}

// save must be called with s.mu held.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrStoreWriteFailed, err.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", dir)
	}

	// Write a sibling file and rename it into place.
	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves a build record by ID.
func (s *Store) Get(id string) (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the build record and persists the store.
func (s *Store) Put(rec domain.BuildRecord) error {
	if rec.ID == "" {
		return zerr.Wrap(domain.ErrStoreWriteFailed, "build record has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[rec.ID] = rec
	s.prune(rec.Project, rec.Version)
	return s.save()
}

// prune drops the oldest records of a project version beyond the retention limit.
// It must be called with s.mu held.
func (s *Store) prune(project, version string) {
	var history []domain.BuildRecord
	for _, rec := range s.cache {
		if rec.Project == project && rec.Version == version {
			history = append(history, rec)
		}
	}
	if len(history) <= s.retention {
		return
	}

	slices.SortFunc(history, func(a, b domain.BuildRecord) int {
		if newer(a, b) {
			return -1
		}
		if newer(b, a) {
			return 1
		}
		return 0
	})
	for _, rec := range history[s.retention:] {
		delete(s.cache, rec.ID)
	}
}

// newer orders records by timestamp, breaking ties by ID.
func newer(a, b domain.BuildRecord) bool {
	return a.Timestamp.After(b.Timestamp) || (a.Timestamp.Equal(b.Timestamp) && a.ID > b.ID)
}

// Latest returns the most recent record for a project version.
func (s *Store) Latest(project, version string) (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.BuildRecord
	for _, rec := range s.cache {
		if rec.Project != project || rec.Version != version {
			continue
		}
		if latest == nil || newer(rec, *latest) {
			r := rec
			latest = &r
		}
	}
	return latest, nil
}

// Opener opens JSON file stores.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open implements ports.BuildRecordStoreOpener.
func (o *Opener) Open(path string) (ports.BuildRecordStore, error) {
	return NewStore(path)
}
