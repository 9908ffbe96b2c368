package bconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads webbundle.config.{yaml,yml}, expanding ${VAR}/$VAR
// environment references before parsing — identical behavior to
// pkg/config/yaml_loader.go's YAMLLoader.
type YAMLLoader struct{}

func (l *YAMLLoader) CanLoad(path string) bool {
	ext := GetConfigFileExtension(path)
	return ext == ".yaml" || ext == ".yml"
}

func (l *YAMLLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing YAML config file: %w", err)
	}

	return &config, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$(\w+)`)

func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimPrefix(match, "${")
		varName = strings.TrimPrefix(varName, "$")
		varName = strings.TrimSuffix(varName, "}")

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}
