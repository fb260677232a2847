package ports

import "go.trai.ch/frameconv/internal/core/domain"

// ConfigLoader defines the interface for loading the service configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path.
	// A missing file yields domain.DefaultOptions.
	Load(path string) (domain.Options, error)
}
