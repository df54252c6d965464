package config

const (
	// EnvPrefix is prepended to every environment variable this package reads.
	EnvPrefix = "PMF_"
	// ConfigFileEnvVar overrides the configuration file path when no explicit
	// path is supplied.
	ConfigFileEnvVar = EnvPrefix + "CONFIG_FILE"
	// DefaultConfigFile is used when neither an explicit path nor
	// ConfigFileEnvVar selects a file.
	DefaultConfigFile = "config.yaml"
)

const (
	defaultLogLevel      = "INFO"
	defaultLogFormat     = "{time} - {name} - {level} - {message}"
	defaultWorkers       = 4
	defaultChunkSize     = 1000
	defaultMaxMatrixSize = 10000
	defaultPrecision     = 2
	defaultOutputFormat  = "json"
	defaultCacheEnabled  = true
	defaultCacheTTL      = 3600
	defaultCacheBackend  = "memory"
)

// LoggingConfig holds the resolved logging settings.
type LoggingConfig struct {
	level  string
	format string
}

// Level returns the textual log level (INFO, DEBUG, WARNING, ERROR).
func (c LoggingConfig) Level() string { return c.level }

// Format returns the log message template.
func (c LoggingConfig) Format() string { return c.format }

// ParallelConfig holds the resolved parallel-processing settings. These are
// carried as inert values: no worker pool runs against them in this service.
type ParallelConfig struct {
	workers   int
	chunkSize int
}

// Workers returns the configured worker count.
func (c ParallelConfig) Workers() int { return c.workers }

// ChunkSize returns the configured chunk size.
func (c ParallelConfig) ChunkSize() int { return c.chunkSize }

// MatrixConfig holds the resolved matrix-processing limits.
type MatrixConfig struct {
	maxSize          int
	defaultPrecision int
}

// MaxSize returns the maximum number of elements a matrix may contain.
func (c MatrixConfig) MaxSize() int { return c.maxSize }

// DefaultPrecision returns the decimal precision applied when formatting.
func (c MatrixConfig) DefaultPrecision() int { return c.defaultPrecision }

// OutputConfig holds the resolved output settings.
type OutputConfig struct {
	format      string
	compression bool
}

// Format returns the default output format name.
func (c OutputConfig) Format() string { return c.format }

// Compression reports whether formatted output is compressed.
func (c OutputConfig) Compression() bool { return c.compression }

// CacheConfig holds the resolved cache settings.
type CacheConfig struct {
	enabled bool
	ttl     int
	backend string
}

// Enabled reports whether caching is live.
func (c CacheConfig) Enabled() bool { return c.enabled }

// TTL returns the default cache entry lifetime in seconds.
func (c CacheConfig) TTL() int { return c.ttl }

// Backend returns the configured cache backend name.
func (c CacheConfig) Backend() string { return c.backend }

// DebugConfig holds the resolved debugging settings.
type DebugConfig struct {
	enabled   bool
	profiling bool
}

// Enabled reports whether debug mode is on.
func (c DebugConfig) Enabled() bool { return c.enabled }

// Profiling reports whether performance profiling is requested.
func (c DebugConfig) Profiling() bool { return c.profiling }

// Config is the fully resolved configuration snapshot. Section fields are
// unexported and only reachable through value-returning accessors, so a
// snapshot cannot be mutated after construction; construction happens solely
// through resolution (Loader, Load) or FromMap.
type Config struct {
	logging  LoggingConfig
	parallel ParallelConfig
	matrix   MatrixConfig
	output   OutputConfig
	cache    CacheConfig
	debug    DebugConfig
}

// Logging returns the logging section.
func (c *Config) Logging() LoggingConfig { return c.logging }

// Parallel returns the parallel section.
func (c *Config) Parallel() ParallelConfig { return c.parallel }

// Matrix returns the matrix section.
func (c *Config) Matrix() MatrixConfig { return c.matrix }

// Output returns the output section.
func (c *Config) Output() OutputConfig { return c.output }

// Cache returns the cache section.
func (c *Config) Cache() CacheConfig { return c.cache }

// Debug returns the debug section.
func (c *Config) Debug() DebugConfig { return c.debug }
