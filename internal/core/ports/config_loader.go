package ports

import "go.trai.ch/pmake/internal/core/domain"

// ConfigLoader defines the interface for loading rule files.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the rule file at path and returns a registry holding its rules in declaration order.
	// A relative path is resolved against the process working directory.
	Load(path string) (*domain.Registry, error)
}
