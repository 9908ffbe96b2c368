package bconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigFileNames lists the files DiscoverConfig looks for, in
// order, at each directory level — the same cascading-name idiom
// pkg/config/discovery.go's DefaultConfigFileNames establishes.
var DefaultConfigFileNames = []string{
	"webbundle.config.ts",
	"webbundle.config.mts",
	"webbundle.config.cts",
	"webbundle.config.js",
	"webbundle.config.mjs",
	"webbundle.config.cjs",
	"webbundle.config.yaml",
	"webbundle.config.yml",
	"webbundle.yaml",
	"webbundle.yml",
}

// DiscoverConfig walks up from startPath (or the current directory)
// looking for one of DefaultConfigFileNames, matching the teacher's
// DiscoverConfig behavior minus package.json fallback (this bundler has
// no Node package ecosystem to piggyback on).
func DiscoverConfig(startPath string) (string, error) {
	if startPath != "" && fileExists(startPath) {
		return startPath, nil
	}

	dir := "."
	if startPath != "" {
		dir = filepath.Dir(startPath)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	for {
		for _, name := range DefaultConfigFileNames {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir || parent == "/" {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no webbundle configuration file found")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
