// Package bconfig loads webbundle.config.{yaml,yml,ts,js} files and maps
// them onto bundler.Options. It is an adaptation of the teacher's
// pkg/config package: same multi-loader/discovery/env-var-expansion
// shape, retargeted at bundler configuration instead of codegen
// configuration.
package bconfig

import (
	"fmt"
	"path/filepath"
)

// Config is the on-disk shape of a webbundle config file.
type Config struct {
	Entries     []string          `yaml:"entries" json:"entries"`
	ImportMap   map[string]string `yaml:"importMap" json:"importMap"`
	OutputMap   map[string]string `yaml:"outputMap" json:"outputMap"`
	OutDir      string            `yaml:"outDir" json:"outDir"`
	Optimize    bool              `yaml:"optimize" json:"optimize"`
	Quiet       bool              `yaml:"quiet" json:"quiet"`
	Concurrency int               `yaml:"concurrency" json:"concurrency"`

	// Reload accepts true, false, or a list of input paths, matching
	// spec.md §6's Options.reload union type.
	Reload interface{} `yaml:"reload" json:"reload"`

	// Plugins names which built-in plugins to enable, in order.
	Plugins []string `yaml:"plugins" json:"plugins"`

	Banner *BannerConfig `yaml:"banner" json:"banner"`
}

// BannerConfig configures the banner optimizer plugin.
type BannerConfig struct {
	Text      string   `yaml:"text" json:"text"`
	Placement string   `yaml:"placement" json:"placement"`
	Formats   []string `yaml:"formats" json:"formats"`
}

// LoadFile loads configuration from a file (YAML, TypeScript, or
// JavaScript), resolving relative paths and applying defaults, the same
// sequence config.LoadFile follows in the teacher.
func LoadFile(path string) (*Config, error) {
	registry := NewLoaderRegistry()
	return registry.Load(path)
}

func (c *Config) setDefaults() {
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if len(c.Plugins) == 0 {
		c.Plugins = []string{"scriptbundle", "graphqlschema"}
	}
}

// Validate checks the minimal shape every config needs.
func (c *Config) Validate() error {
	if len(c.Entries) == 0 {
		return fmt.Errorf("entries: at least one entry input is required")
	}
	for i, p := range c.Plugins {
		if p == "" {
			return fmt.Errorf("plugins[%d]: name cannot be empty", i)
		}
	}
	return nil
}

// ResolveRelativePaths resolves entries and outDir relative to the
// config file's directory, matching Config.ResolveRelativePaths in the
// teacher.
func (c *Config) ResolveRelativePaths(configPath string) {
	baseDir := filepath.Dir(configPath)

	for i := range c.Entries {
		if !filepath.IsAbs(c.Entries[i]) {
			c.Entries[i] = filepath.Join(baseDir, c.Entries[i])
		}
	}
	if c.OutDir != "" && !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(baseDir, c.OutDir)
	}
}
