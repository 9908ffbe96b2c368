package bconfig

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Loader loads a Config from one config file format.
type Loader interface {
	Load(path string) (*Config, error)
	CanLoad(path string) bool
}

// LoaderRegistry tries each registered Loader in order, the same pattern
// pkg/config/loader.go's LoaderRegistry uses.
type LoaderRegistry struct {
	loaders []Loader
}

// NewLoaderRegistry builds the default registry: YAML, then TypeScript,
// then JavaScript, mirroring the teacher's loader order.
func NewLoaderRegistry() *LoaderRegistry {
	return &LoaderRegistry{
		loaders: []Loader{
			&YAMLLoader{},
			&TypeScriptLoader{},
			&JavaScriptLoader{},
		},
	}
}

func (r *LoaderRegistry) Load(path string) (*Config, error) {
	for _, loader := range r.loaders {
		if !loader.CanLoad(path) {
			continue
		}
		cfg, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config with %T: %w", loader, err)
		}

		cfg.ResolveRelativePaths(path)
		cfg.setDefaults()

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}

		return cfg, nil
	}
	return nil, fmt.Errorf("no loader found for file: %s", path)
}

// GetConfigFileExtension returns the lowercased file extension of path.
func GetConfigFileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
