package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envBinding ties one environment variable to its destination section and
// field, together with the coercion applied to the raw string value.
type envBinding struct {
	name    string // variable name without the PMF_ prefix
	section string
	field   string
	coerce  func(string) (any, error)
}

// envBindings is the fixed table of recognized environment variables.
// Variables absent from the environment are omitted from the mapping
// entirely; defaulting happens later during section construction.
var envBindings = []envBinding{
	{"LOG_LEVEL", "logging", "level", coerceText},
	{"PARALLEL_WORKERS", "parallel", "workers", coerceInt},
	{"MAX_MATRIX_SIZE", "matrix", "max_size", coerceInt},
	{"OUTPUT_FORMAT", "output", "format", coerceText},
	{"CACHE_ENABLED", "cache", "enabled", coerceBool},
	{"CACHE_TTL", "cache", "ttl", coerceInt},
	{"DEBUG_MODE", "debug", "enabled", coerceBool},
}

// loadEnv scans the binding table and returns a nested mapping holding only
// the variables that are actually set, each coerced to its declared type.
func loadEnv() (map[string]any, error) {
	mapping := make(map[string]any)
	for _, binding := range envBindings {
		raw, ok := os.LookupEnv(EnvPrefix + binding.name)
		if !ok {
			continue
		}
		value, err := binding.coerce(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidEnvValue, EnvPrefix, binding.name, raw, err)
		}
		section, ok := mapping[binding.section].(map[string]any)
		if !ok {
			section = make(map[string]any)
			mapping[binding.section] = section
		}
		section[binding.field] = value
	}
	return mapping, nil
}

func coerceText(raw string) (any, error) {
	return raw, nil
}

func coerceInt(raw string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not a base-10 integer")
	}
	return int(n), nil
}

func coerceBool(raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return nil, fmt.Errorf("not a recognized boolean")
	}
}
