package config

import "sync"

// Loader resolves one configuration snapshot from a file and the process
// environment. It carries no mutable state beyond the resolved file path, so
// call sites that prefer dependency injection over the process-wide registry
// can construct and use one directly.
type Loader struct {
	configFile string
}

// NewLoader creates a loader for the file selected by the documented
// precedence: the explicit path, then PMF_CONFIG_FILE, then config.yaml.
// Pass an empty path to rely on the fallbacks.
func NewLoader(path string) *Loader {
	return &Loader{configFile: resolveConfigFile(path)}
}

// ConfigFile reports which file the loader reads.
func (l *Loader) ConfigFile() string { return l.configFile }

// Resolve runs the full pipeline: the file and environment sources are read
// independently, merged with environment precedence, and built into a typed
// snapshot. Any failure aborts the attempt; no partial snapshot is returned.
func (l *Loader) Resolve() (*Config, error) {
	fileMapping, err := loadFile(l.configFile)
	if err != nil {
		return nil, err
	}
	envMapping, err := loadEnv()
	if err != nil {
		return nil, err
	}
	return FromMap(mergeMappings(fileMapping, envMapping))
}

var (
	registryMu       sync.Mutex
	registryLoader   *Loader
	registrySnapshot *Config
)

// Load returns the process-wide snapshot, resolving it on first use. The path
// argument only matters on the call that performs the resolution; every later
// call returns the identical snapshot regardless of its argument. A failed
// resolution leaves the registry empty, so callers may fix the environment
// and try again.
func Load(path string) (*Config, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if registrySnapshot != nil {
		return registrySnapshot, nil
	}

	loader := NewLoader(path)
	cfg, err := loader.Resolve()
	if err != nil {
		return nil, err
	}
	registryLoader = loader
	registrySnapshot = cfg
	return cfg, nil
}

// Reset discards the cached snapshot and its loader so the next Load performs
// a fresh resolution. Intended for test isolation; dependent components built
// from the old snapshot must be rebuilt by their owners.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registryLoader = nil
	registrySnapshot = nil
}
