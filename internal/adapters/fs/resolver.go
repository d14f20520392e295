package fs

import (
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver implements the SourceResolver interface using filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveSources returns the regular files in dir matching pattern, sorted.
// No matches is not an error.
func (r *Resolver) ResolveSources(dir, pattern string) ([]string, error) {
	path := filepath.Join(dir, pattern)

	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
	}

	result := make([]string, 0, len(matches))
	for _, match := range matches {
		if isFile(match) {
			result = append(result, match)
		}
	}
	sort.Strings(result)

	return result, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
