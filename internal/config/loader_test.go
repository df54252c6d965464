package config

import (
	"errors"
	"testing"
)

func TestLoadReturnsIdenticalSnapshot(t *testing.T) {
	clearEnv(t)
	Reset()
	t.Cleanup(Reset)

	first, err := Load("")
	if err != nil {
		t.Fatalf("first Load returned error: %v", err)
	}
	second, err := Load("some-other-path.yaml")
	if err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical snapshot instance across Load calls")
	}
}

func TestResetForcesFreshResolution(t *testing.T) {
	clearEnv(t)
	Reset()
	t.Cleanup(Reset)

	first, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if first.Logging().Level() != "INFO" {
		t.Fatalf("expected default level, got %s", first.Logging().Level())
	}

	Reset()
	t.Setenv("PMF_LOG_LEVEL", "ERROR")

	second, err := Load("")
	if err != nil {
		t.Fatalf("Load after Reset returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected a fresh snapshot after Reset")
	}
	if second.Logging().Level() != "ERROR" {
		t.Fatalf("expected fresh resolution to pick up env change, got %s", second.Logging().Level())
	}
}

func TestResolveFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "parallel:\n  workers: 8\ncache:\n  ttl: 7200\n")
	t.Setenv("PMF_LOG_LEVEL", "ERROR")

	cfg, err := NewLoader(path).Resolve()
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if got := cfg.Logging().Level(); got != "ERROR" {
		t.Fatalf("expected env level ERROR, got %s", got)
	}
	if got := cfg.Parallel().Workers(); got != 8 {
		t.Fatalf("expected file workers 8, got %d", got)
	}
	if got := cfg.Cache().TTL(); got != 7200 {
		t.Fatalf("expected file ttl 7200, got %d", got)
	}
	if got := cfg.Matrix().MaxSize(); got != 10000 {
		t.Fatalf("expected default max size 10000, got %d", got)
	}
}

func TestEnvBeatsFileForSameField(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "logging:\n  level: WARNING\noutput:\n  format: csv\n")
	t.Setenv("PMF_LOG_LEVEL", "DEBUG")
	t.Setenv("PMF_OUTPUT_FORMAT", "json")

	cfg, err := NewLoader(path).Resolve()
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := cfg.Logging().Level(); got != "DEBUG" {
		t.Fatalf("expected env level DEBUG, got %s", got)
	}
	if got := cfg.Output().Format(); got != "json" {
		t.Fatalf("expected env format json, got %s", got)
	}
}

func TestResolveInvalidEnvAbortsWithoutSnapshot(t *testing.T) {
	clearEnv(t)
	Reset()
	t.Cleanup(Reset)
	t.Setenv("PMF_PARALLEL_WORKERS", "not_a_number")

	if _, err := Load(""); !errors.Is(err, ErrInvalidEnvValue) {
		t.Fatalf("expected ErrInvalidEnvValue, got %v", err)
	}

	// The failed attempt must not populate the registry; fixing the
	// environment and retrying performs a clean resolution.
	t.Setenv("PMF_PARALLEL_WORKERS", "6")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("retry after fix returned error: %v", err)
	}
	if got := cfg.Parallel().Workers(); got != 6 {
		t.Fatalf("expected workers 6 after retry, got %d", got)
	}
}

func TestResolveMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewLoader("definitely-not-here.yaml").Resolve()
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := cfg.Output().Format(); got != "json" {
		t.Fatalf("expected default output format, got %s", got)
	}
	if got := cfg.Cache().TTL(); got != 3600 {
		t.Fatalf("expected default ttl, got %d", got)
	}
}

func TestResolveMalformedFileAborts(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "cache: [unterminated\n")

	if _, err := NewLoader(path).Resolve(); !errors.Is(err, ErrMalformedConfigFile) {
		t.Fatalf("expected ErrMalformedConfigFile, got %v", err)
	}
}

func TestNewLoaderResolvesPath(t *testing.T) {
	clearEnv(t)
	t.Setenv(ConfigFileEnvVar, "from-env.yaml")

	if got := NewLoader("").ConfigFile(); got != "from-env.yaml" {
		t.Fatalf("expected env-selected file, got %s", got)
	}
	if got := NewLoader("explicit.yaml").ConfigFile(); got != "explicit.yaml" {
		t.Fatalf("expected explicit file, got %s", got)
	}
}
