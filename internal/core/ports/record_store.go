package ports

import "go.trai.ch/scribe/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving build records.
//
//go:generate go run go.uber.org/mock/mockgen -source=record_store.go -destination=mocks/mock_record_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves a build record by its ID.
	// Returns nil, nil if not found.
	Get(id string) (*domain.BuildRecord, error)

	// Put stores the build record.
	Put(record domain.BuildRecord) error

	// Latest returns the most recent record for a project version.
	// Returns nil, nil if the version was never built.
	Latest(project, version string) (*domain.BuildRecord, error)
}

// BuildRecordStoreOpener opens the store configured for a catalog.
type BuildRecordStoreOpener interface {
	// Open returns the store persisted at path, creating it on first write.
	Open(path string) (BuildRecordStore, error)
}
