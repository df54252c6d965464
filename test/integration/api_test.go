package integration

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/pmf-io/matrix-formatter/internal/application"
	"github.com/pmf-io/matrix-formatter/internal/config"
)

// resolveSnapshot runs the full resolution pipeline from a temporary YAML
// file plus the process environment, outside the process-wide registry so
// tests stay independent.
func resolveSnapshot(t *testing.T, yamlBody string) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := config.NewLoader(path).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return cfg
}

func TestEndToEndResolutionAndFormatting(t *testing.T) {
	t.Setenv("PMF_OUTPUT_FORMAT", "csv")

	cfg := resolveSnapshot(t, `
output:
  format: json
matrix:
  default_precision: 1
parallel:
  workers: 8
`)

	// Environment beats the file; untouched keys keep file values.
	if got := cfg.Output().Format(); got != "csv" {
		t.Fatalf("output format = %q, want %q", got, "csv")
	}
	if got := cfg.Matrix().DefaultPrecision(); got != 1 {
		t.Fatalf("precision = %d, want 1", got)
	}
	if got := cfg.Parallel().Workers(); got != 8 {
		t.Fatalf("workers = %d, want 8", got)
	}

	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New() error = %v", err)
	}
	router := app.Server().Handler

	req := httptest.NewRequest(http.MethodPost, "/api/format",
		strings.NewReader(`{"matrix": [[1.26, 2.0], [3.0, 4.0]]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Format string `json:"format"`
		Body   string `json:"body"`
		Cached bool   `json:"cached"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Format != "csv" {
		t.Errorf("format = %q, want csv from environment override", resp.Format)
	}
	if resp.Body != "1.3,2\n3,4\n" {
		t.Errorf("body = %q, want %q", resp.Body, "1.3,2\n3,4\n")
	}
	if resp.Cached {
		t.Error("first request reported as cached")
	}
}

func TestEndToEndCacheLifecycle(t *testing.T) {
	cfg := resolveSnapshot(t, `
cache:
  enabled: true
  ttl: 600
`)

	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New() error = %v", err)
	}
	router := app.Server().Handler

	post := func() (int, bool) {
		req := httptest.NewRequest(http.MethodPost, "/api/format",
			strings.NewReader(`{"matrix": [[5.0]]}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		var resp struct {
			Cached bool `json:"cached"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return rec.Code, resp.Cached
	}

	if code, cached := post(); code != http.StatusOK || cached {
		t.Fatalf("first request: code %d cached %v", code, cached)
	}
	if code, cached := post(); code != http.StatusOK || !cached {
		t.Fatalf("second request: code %d cached %v, want cache hit", code, cached)
	}

	clearReq := httptest.NewRequest(http.MethodDelete, "/api/cache", nil)
	clearRec := httptest.NewRecorder()
	router.ServeHTTP(clearRec, clearReq)
	if clearRec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", clearRec.Code)
	}

	if code, cached := post(); code != http.StatusOK || cached {
		t.Fatalf("request after clear: code %d cached %v, want miss", code, cached)
	}
}

func TestEndToEndInvalidEnvironmentAborts(t *testing.T) {
	t.Setenv("PMF_PARALLEL_WORKERS", "not-a-number")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("parallel:\n  workers: 2\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := config.NewLoader(path).Resolve(); !errors.Is(err, config.ErrInvalidEnvValue) {
		t.Fatalf("Resolve() error = %v, want ErrInvalidEnvValue", err)
	}
}
