package config

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// sectionFields lists the recognized keys per section. Any key outside this
// schema, at either level of the mapping, is a hard error.
var sectionFields = map[string][]string{
	"logging":  {"level", "format"},
	"parallel": {"workers", "chunk_size"},
	"matrix":   {"max_size", "default_precision"},
	"output":   {"format", "compression"},
	"cache":    {"enabled", "ttl", "backend"},
	"debug":    {"enabled", "profiling"},
}

// Carrier structs receive the decoded section values. They are prefilled with
// the documented defaults before decoding, so only keys present in the merged
// mapping are overwritten.
type loggingCarrier struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type parallelCarrier struct {
	Workers   int `mapstructure:"workers"`
	ChunkSize int `mapstructure:"chunk_size"`
}

type matrixCarrier struct {
	MaxSize          int `mapstructure:"max_size"`
	DefaultPrecision int `mapstructure:"default_precision"`
}

type outputCarrier struct {
	Format      string `mapstructure:"format"`
	Compression bool   `mapstructure:"compression"`
}

type cacheCarrier struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     int    `mapstructure:"ttl"`
	Backend string `mapstructure:"backend"`
}

type debugCarrier struct {
	Enabled   bool `mapstructure:"enabled"`
	Profiling bool `mapstructure:"profiling"`
}

// FromMap builds a snapshot from a merged nested mapping, applying defaults
// for missing keys and rejecting anything outside the schema. It is the
// single validating constructor: resolution funnels through it, and tests or
// dependency-injection call sites may use it directly.
func FromMap(merged map[string]any) (*Config, error) {
	for name := range merged {
		if _, ok := sectionFields[name]; !ok {
			return nil, fmt.Errorf("%w: unrecognized section %q", ErrUnknownConfigField, name)
		}
	}

	logging := loggingCarrier{Level: defaultLogLevel, Format: defaultLogFormat}
	parallel := parallelCarrier{Workers: defaultWorkers, ChunkSize: defaultChunkSize}
	matrix := matrixCarrier{MaxSize: defaultMaxMatrixSize, DefaultPrecision: defaultPrecision}
	output := outputCarrier{Format: defaultOutputFormat, Compression: false}
	cache := cacheCarrier{Enabled: defaultCacheEnabled, TTL: defaultCacheTTL, Backend: defaultCacheBackend}
	debug := debugCarrier{Enabled: false, Profiling: false}

	for _, section := range []struct {
		name   string
		target any
	}{
		{"logging", &logging},
		{"parallel", &parallel},
		{"matrix", &matrix},
		{"output", &output},
		{"cache", &cache},
		{"debug", &debug},
	} {
		if err := decodeSection(merged, section.name, section.target); err != nil {
			return nil, err
		}
	}

	return &Config{
		logging:  LoggingConfig{level: logging.Level, format: logging.Format},
		parallel: ParallelConfig{workers: parallel.Workers, chunkSize: parallel.ChunkSize},
		matrix:   MatrixConfig{maxSize: matrix.MaxSize, defaultPrecision: matrix.DefaultPrecision},
		output:   OutputConfig{format: output.Format, compression: output.Compression},
		cache:    CacheConfig{enabled: cache.Enabled, ttl: cache.TTL, backend: cache.Backend},
		debug:    DebugConfig{enabled: debug.Enabled, profiling: debug.Profiling},
	}, nil
}

// decodeSection validates the section's keys against the schema and decodes
// the remaining values onto the defaults-prefilled carrier. Decoding is
// strict: a value of the wrong shape fails instead of being weakly converted.
func decodeSection(merged map[string]any, name string, target any) error {
	raw, ok := merged[name]
	if !ok || raw == nil {
		return nil
	}
	sectionMap, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: section %q must be a mapping, got %T", ErrInvalidFieldType, name, raw)
	}

	allowed := sectionFields[name]
	for key := range sectionMap {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownConfigField, name, key)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     target,
		TagName:    "mapstructure",
		DecodeHook: rejectFractionalInts,
	})
	if err != nil {
		return fmt.Errorf("create decoder for section %q: %w", name, err)
	}
	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("%w: section %q: %v", ErrInvalidFieldType, name, err)
	}
	return nil
}

// rejectFractionalInts fails decoding when a floating-point source value
// carries a fractional part and the destination is an integer field, instead
// of silently truncating it. Integral floats pass through: YAML hands a
// literal like 8.0 to the decoder as a float.
func rejectFractionalInts(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("fractional value %v for integer field", data)
	}
	return data, nil
}
