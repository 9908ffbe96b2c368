package bconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// JavaScriptLoader loads webbundle.config.{js,mjs,cjs} by executing it
// with Node and capturing its default export, the same shape as
// pkg/config/javascript_loader.go's JavaScriptLoader.
type JavaScriptLoader struct{}

func (l *JavaScriptLoader) CanLoad(path string) bool {
	ext := GetConfigFileExtension(path)
	return ext == ".js" || ext == ".mjs" || ext == ".cjs"
}

func (l *JavaScriptLoader) Load(path string) (*Config, error) {
	jsCode, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading JavaScript file: %w", err)
	}

	config, err := l.executeJavaScript(string(jsCode), path)
	if err != nil {
		return nil, fmt.Errorf("executing JavaScript: %w", err)
	}

	return config, nil
}

func (l *JavaScriptLoader) executeJavaScript(jsCode string, originalPath string) (*Config, error) {
	if !l.hasNode() {
		return nil, fmt.Errorf("node not found. Please install Node.js")
	}

	wrapper := `
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

func (l *JavaScriptLoader) hasNode() bool {
	cmd := exec.Command("node", "--version")
	return cmd.Run() == nil
}
