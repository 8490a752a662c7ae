package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
backend: extractapi
timeoutMS: 5000
retry:
  maxAttempts: 4
  baseDelayMS: 250
  backoffFactor: 1.5
structured:
  url: https://parser.internal/parse
  key: abc
extract:
  url: https://extract.internal
proxy: https://proxy.internal/fetch?url=
verbose: true
`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.Backend != "extractapi" || fc.Timeout != 5000 {
		t.Fatalf("unexpected top-level fields: %+v", fc)
	}
	if fc.Retry.MaxAttempts != 4 || fc.Retry.BackoffFactor != 1.5 {
		t.Fatalf("unexpected retry section: %+v", fc.Retry)
	}
	if fc.Structured.URL == "" || fc.Structured.Key != "abc" {
		t.Fatalf("unexpected structured section: %+v", fc.Structured)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{"backend": "page", "retry": {"maxAttempts": 2}}`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.Backend != "page" || fc.Retry.MaxAttempts != 2 {
		t.Fatalf("unexpected config: %+v", fc)
	}
}

func TestApplyFileConfig_FlagsKeepPrecedence(t *testing.T) {
	cfg := Config{URL: "https://example.com", PreferredBackend: "structured", AttemptTimeoutMS: 0}
	var fc FileConfig
	fc.Backend = "page"
	fc.Timeout = 9000
	fc.Extract.URL = "https://extract.internal"
	ApplyFileConfig(&cfg, fc)
	if cfg.PreferredBackend != "structured" {
		t.Fatalf("explicit flag must win over file config, got %q", cfg.PreferredBackend)
	}
	if cfg.AttemptTimeoutMS != 9000 {
		t.Fatalf("unset fields should take file values, got %d", cfg.AttemptTimeoutMS)
	}
	if cfg.ExtractURL != "https://extract.internal" {
		t.Fatalf("extract url should overlay, got %q", cfg.ExtractURL)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{}); err == nil {
		t.Fatalf("missing URL must fail validation")
	}
	if err := ValidateConfig(Config{URL: "https://example.com", PreferredBackend: "bogus"}); err == nil {
		t.Fatalf("unknown backend must fail validation")
	}
	if err := ValidateConfig(Config{URL: "https://example.com", RetryBackoffFactor: 0.5}); err == nil {
		t.Fatalf("backoff factor below 1 must fail validation")
	}
	if err := ValidateConfig(Config{URL: "https://example.com", PreferredBackend: "page", RetryBackoffFactor: 2}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
