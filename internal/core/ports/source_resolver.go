package ports

// SourceResolver defines the interface for locating generated sources.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=source_resolver.go
type SourceResolver interface {
	// ResolveSources returns the files in dir matching pattern, sorted by name.
	ResolveSources(dir, pattern string) ([]string, error)
}
