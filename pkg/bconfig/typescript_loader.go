package bconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

// TypeScriptLoader loads webbundle.config.ts (and .mts/.cts): transpile
// via esbuild, then execute the resulting CommonJS with Node and capture
// its default export as JSON. Identical shape to
// pkg/config/typescript_loader.go's TypeScriptLoader, retargeted at the
// bconfig.Config schema.
type TypeScriptLoader struct{}

func (l *TypeScriptLoader) CanLoad(path string) bool {
	ext := GetConfigFileExtension(path)
	return ext == ".ts" || ext == ".mts" || ext == ".cts"
}

func (l *TypeScriptLoader) Load(path string) (*Config, error) {
	jsCode, err := l.transpileTypeScript(path)
	if err != nil {
		return nil, fmt.Errorf("transpiling TypeScript: %w", err)
	}

	config, err := l.executeJavaScript(jsCode, path)
	if err != nil {
		return nil, fmt.Errorf("executing JavaScript: %w", err)
	}

	return config, nil
}

func (l *TypeScriptLoader) transpileTypeScript(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading TypeScript file: %w", err)
	}

	result := api.Transform(string(contents), api.TransformOptions{
		Loader:     api.LoaderTS,
		Format:     api.FormatCommonJS,
		Target:     api.ES2020,
		Sourcefile: path,
	})

	if len(result.Errors) > 0 {
		var errMsg string
		for _, e := range result.Errors {
			errMsg += fmt.Sprintf("%v: %s\n", e.Location, e.Text)
		}
		return "", fmt.Errorf("TypeScript compilation errors:\n%s", errMsg)
	}

	return string(result.Code), nil
}

func (l *TypeScriptLoader) executeJavaScript(jsCode string, originalPath string) (*Config, error) {
	if !l.hasNode() {
		return nil, fmt.Errorf("node not found. Please install Node.js")
	}

	wrapper := `
const path = require('path');

%s

const exportedConfig = module.exports.default || module.exports;
console.log(JSON.stringify(exportedConfig));
`
	scriptContent := fmt.Sprintf(wrapper, jsCode)

	tempFile, err := os.CreateTemp("", "webbundle-config-*.js")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(scriptContent); err != nil {
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	tempFile.Close()

	cmd := exec.Command("node", tempFile.Name())
	cmd.Dir = filepath.Dir(originalPath)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("node execution error: %s\n%s", err, stderr.String())
	}

	var config Config
	if err := json.Unmarshal(out.Bytes(), &config); err != nil {
		return nil, fmt.Errorf("parsing config JSON: %w", err)
	}

	return &config, nil
}

func (l *TypeScriptLoader) hasNode() bool {
	cmd := exec.Command("node", "--version")
	return cmd.Run() == nil
}
