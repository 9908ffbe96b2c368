package bconfig

import (
	"fmt"

	"github.com/jzeiders/webbundler/internal/fsutil"
	"github.com/jzeiders/webbundler/pkg/bundler"
	"github.com/jzeiders/webbundler/pkg/plugins/banner"
	"github.com/jzeiders/webbundler/pkg/plugins/graphqlschema"
	"github.com/jzeiders/webbundler/pkg/plugins/scriptbundle"
)

// Factory builds a Plugin, given the resolved Config for access to
// plugin-specific settings (currently only "banner" reads config back).
type Factory func(cfg *Config, fs fsutil.FS) bundler.Plugin

// PluginRegistry maps a config-file plugin name to its Factory, adapting
// pkg/plugin/registry.go's DefaultRegistry from a codegen-plugin lookup
// to a bundler-plugin lookup. Unlike the dispatcher's ordered plugin
// list (order-sensitive at dispatch time), this registry is purely a
// name -> constructor index used while building that ordered list from
// a config file.
type PluginRegistry struct {
	factories map[string]Factory
}

// NewPluginRegistry builds the default registry of built-in plugins.
func NewPluginRegistry() *PluginRegistry {
	r := &PluginRegistry{factories: make(map[string]Factory)}
	r.Register("scriptbundle", func(cfg *Config, fs fsutil.FS) bundler.Plugin {
		return scriptbundle.New(fs)
	})
	r.Register("graphqlschema", func(cfg *Config, fs fsutil.FS) bundler.Plugin {
		return graphqlschema.New(fs)
	})
	r.Register("banner", func(cfg *Config, fs fsutil.FS) bundler.Plugin {
		if cfg.Banner == nil {
			return banner.New("", banner.PlacementPrepend)
		}
		formats := make([]bundler.Format, 0, len(cfg.Banner.Formats))
		for _, f := range cfg.Banner.Formats {
			formats = append(formats, bundler.Format(f))
		}
		return banner.New(cfg.Banner.Text, banner.Placement(cfg.Banner.Placement), formats...)
	})
	return r
}

// Register adds a named factory. It overwrites any existing registration
// for the same name, so callers (and tests) can substitute fakes.
func (r *PluginRegistry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Build resolves cfg.Plugins, in order, into a Plugin slice ready to pass
// to bundler.New.
func (r *PluginRegistry) Build(cfg *Config, fs fsutil.FS) ([]bundler.Plugin, error) {
	plugins := make([]bundler.Plugin, 0, len(cfg.Plugins))
	for _, name := range cfg.Plugins {
		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("plugin %q not registered", name)
		}
		plugins = append(plugins, factory(cfg, fs))
	}
	return plugins, nil
}

// ToOptions maps a resolved Config onto bundler.Options.
func (c *Config) ToOptions() bundler.Options {
	return bundler.Options{
		ImportMap:   c.ImportMap,
		OutputMap:   c.OutputMap,
		OutDirPath:  c.OutDir,
		Optimize:    c.Optimize,
		Quiet:       c.Quiet,
		Concurrency: c.Concurrency,
		Reload:      parseReload(c.Reload),
	}
}

func parseReload(raw interface{}) bundler.Reload {
	switch v := raw.(type) {
	case bool:
		if v {
			return bundler.ReloadAll()
		}
		return bundler.ReloadNone()
	case []interface{}:
		inputs := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				inputs = append(inputs, s)
			}
		}
		return bundler.ReloadInputs(inputs...)
	case []string:
		return bundler.ReloadInputs(v...)
	default:
		return bundler.ReloadNone()
	}
}
