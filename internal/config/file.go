package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// resolveConfigFile determines which configuration file to read.
// Precedence: explicit path, then the PMF_CONFIG_FILE environment variable,
// then the default filename.
func resolveConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fromEnv := os.Getenv(ConfigFileEnvVar); fromEnv != "" {
		return fromEnv
	}
	return DefaultConfigFile
}

// loadFile reads the YAML document at path into a nested mapping. A missing
// file is not an error: resolution proceeds against an empty mapping and the
// documented defaults.
func loadFile(path string) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrUnreadableConfigFile, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadableConfigFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableConfigFile, path, err)
	}

	mapping := make(map[string]any)
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedConfigFile, path, err)
	}
	return mapping, nil
}
