package ports

import "go.trai.ch/scribe/internal/core/domain"

// ConfigLoader defines the interface for loading the project catalog.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and validates the configuration file at path.
	Load(path string) (*domain.Catalog, error)
}
