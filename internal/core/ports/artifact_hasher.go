package ports

// ArtifactHasher defines the interface for fingerprinting build artifacts.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=artifact_hasher.go
type ArtifactHasher interface {
	// HashArtifact returns the content hash of the file or directory at path.
	HashArtifact(path string) (string, error)
}
