package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadFileMissingReturnsEmptyMapping(t *testing.T) {
	mapping, err := loadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mapping) != 0 {
		t.Fatalf("expected empty mapping, got %v", mapping)
	}
}

func TestLoadFileParsesYAML(t *testing.T) {
	path := writeTempConfig(t, "parallel:\n  workers: 8\ncache:\n  ttl: 7200\n")

	mapping, err := loadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parallel, ok := mapping["parallel"].(map[string]any)
	if !ok || parallel["workers"] != 8 {
		t.Fatalf("expected parallel.workers 8, got %v", mapping["parallel"])
	}
	cacheSection, ok := mapping["cache"].(map[string]any)
	if !ok || cacheSection["ttl"] != 7200 {
		t.Fatalf("expected cache.ttl 7200, got %v", mapping["cache"])
	}
}

func TestLoadFileMalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "cache: [unterminated\n")

	if _, err := loadFile(path); !errors.Is(err, ErrMalformedConfigFile) {
		t.Fatalf("expected ErrMalformedConfigFile, got %v", err)
	}
}

func TestLoadFileDirectoryIsUnreadable(t *testing.T) {
	if _, err := loadFile(t.TempDir()); !errors.Is(err, ErrUnreadableConfigFile) {
		t.Fatalf("expected ErrUnreadableConfigFile, got %v", err)
	}
}

func TestResolveConfigFilePrecedence(t *testing.T) {
	clearEnv(t)

	t.Run("default when nothing set", func(t *testing.T) {
		if got := resolveConfigFile(""); got != DefaultConfigFile {
			t.Fatalf("expected %s, got %s", DefaultConfigFile, got)
		}
	})

	t.Run("environment variable beats default", func(t *testing.T) {
		t.Setenv(ConfigFileEnvVar, "/etc/pmf/config.yaml")
		if got := resolveConfigFile(""); got != "/etc/pmf/config.yaml" {
			t.Fatalf("expected env path, got %s", got)
		}
	})

	t.Run("explicit path beats environment", func(t *testing.T) {
		t.Setenv(ConfigFileEnvVar, "/etc/pmf/config.yaml")
		if got := resolveConfigFile("local.yaml"); got != "local.yaml" {
			t.Fatalf("expected explicit path, got %s", got)
		}
	})
}
