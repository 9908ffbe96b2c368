package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jzeiders/webbundler/internal/fsutil"
	"github.com/jzeiders/webbundler/pkg/bconfig"
	"github.com/jzeiders/webbundler/pkg/bundler"
)

// runBuild loads config, constructs the plugin list, and runs a single
// bundle() pass, writing every non-empty emitted Bundle to disk. It is
// the orchestration cobra's generateCmd.RunE performed in the teacher,
// collapsed here to a single bundler.Bundle call since this domain has
// one pipeline, not one Generate per output target.
func runBuild() error {
	var configPath string
	var err error

	if cfgFile != "" {
		configPath = cfgFile
	} else {
		configPath, err = bconfig.DiscoverConfig("")
		if err != nil {
			return fmt.Errorf("discovering config: %w", err)
		}
	}

	if !quiet {
		fmt.Printf("Loading config from: %s\n", configPath)
	}

	cfg, err := bconfig.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if outDir != "" {
		cfg.OutDir = outDir
	}
	if optimize {
		cfg.Optimize = true
	}
	if reloadAll {
		cfg.Reload = true
	}
	if quiet {
		cfg.Quiet = true
	}

	diskFS := fsutil.OS{}
	registry := bconfig.NewPluginRegistry()
	plugins, err := registry.Build(cfg, diskFS)
	if err != nil {
		return fmt.Errorf("resolving plugins: %w", err)
	}

	if verbose {
		fmt.Println("Registered plugins:", cfg.Plugins)
	}

	logger := bundler.NewLogger(cfg.Quiet, verbose)
	b := bundler.New(plugins, logger)

	opts := cfg.ToOptions()

	result, err := b.Bundle(context.Background(), cfg.Entries, opts)
	if err != nil {
		return fmt.Errorf("bundling: %w", err)
	}

	written := 0
	for input, bundle := range result.Bundles {
		if bundle == nil || len(bundle.Content) == 0 {
			continue
		}
		if err := writeBundle(bundle); err != nil {
			return fmt.Errorf("writing bundle for %s: %w", input, err)
		}
		written++
		if !cfg.Quiet {
			fmt.Printf("  Wrote: %s (%d bytes)\n", bundle.Output, len(bundle.Content))
		}
	}

	if err := result.Cache.Flush(); err != nil {
		return fmt.Errorf("flushing cache: %w", err)
	}

	if !cfg.Quiet {
		fmt.Printf("\nBuild complete: %d chunk(s), %d bundle(s) written\n", len(result.Chunks), written)
	}

	return nil
}

func writeBundle(b *bundler.Bundle) error {
	if err := os.MkdirAll(filepath.Dir(b.Output), 0o755); err != nil {
		return err
	}
	return os.WriteFile(b.Output, b.Content, 0o644)
}
