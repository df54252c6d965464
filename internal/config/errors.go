package config

import "errors"

var (
	// ErrMalformedConfigFile indicates the configuration file exists but is not valid YAML.
	ErrMalformedConfigFile = errors.New("configuration file contains invalid YAML")
	// ErrUnreadableConfigFile indicates the configuration file exists but cannot be read.
	ErrUnreadableConfigFile = errors.New("configuration file cannot be read")
	// ErrInvalidEnvValue indicates an environment variable is set to a value
	// that fails its declared coercion.
	ErrInvalidEnvValue = errors.New("invalid environment variable value")
	// ErrUnknownConfigField indicates a source supplied a key outside the
	// recognized configuration schema.
	ErrUnknownConfigField = errors.New("unknown configuration field")
	// ErrInvalidFieldType indicates a source supplied a value whose shape does
	// not satisfy the destination field's type.
	ErrInvalidFieldType = errors.New("configuration field has invalid type")
)
