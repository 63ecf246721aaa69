package ports

import "go.trai.ch/montauk/internal/core/domain"

// ConfigLoader defines the interface for loading the engine configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds montauk.yaml from the given working directory upward and returns the resolved config.
	Load(cwd string) (*domain.Config, error)
}
