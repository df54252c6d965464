// Package config resolves application configuration from a YAML file and
// PMF_-prefixed environment variables into a single immutable snapshot.
// Environment values take precedence over file values and documented defaults
// fill every remaining field, so a resolved snapshot never has an unset field.
// The package also hosts the process-wide snapshot registry used by the entry
// point; components themselves receive the snapshot explicitly.
package config
