package ports

import "go.trai.ch/dsget/internal/core/domain"

// ConfigLoader defines the interface for loading process defaults.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the defaults file at path. A missing file yields the built-in defaults.
	Load(path string) (domain.Settings, error)
}
