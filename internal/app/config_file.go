package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and env vars.
type FileConfig struct {
	Output  string `yaml:"output" json:"output"`
	Backend string `yaml:"backend" json:"backend"`
	Timeout int    `yaml:"timeoutMS" json:"timeoutMS"`

	Retry struct {
		MaxAttempts   int     `yaml:"maxAttempts" json:"maxAttempts"`
		BaseDelayMS   int     `yaml:"baseDelayMS" json:"baseDelayMS"`
		BackoffFactor float64 `yaml:"backoffFactor" json:"backoffFactor"`
	} `yaml:"retry" json:"retry"`

	Structured struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"structured" json:"structured"`

	Extract struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"extract" json:"extract"`

	Proxy     string `yaml:"proxy" json:"proxy"`
	UserAgent string `yaml:"ua" json:"ua"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields still
// at their flag defaults, so explicit flags keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.PreferredBackend == "" && fc.Backend != "" {
		cfg.PreferredBackend = fc.Backend
	}
	if cfg.AttemptTimeoutMS == 0 && fc.Timeout > 0 {
		cfg.AttemptTimeoutMS = fc.Timeout
	}
	if cfg.RetryMaxAttempts == 0 && fc.Retry.MaxAttempts > 0 {
		cfg.RetryMaxAttempts = fc.Retry.MaxAttempts
	}
	if cfg.RetryBaseDelayMS == 0 && fc.Retry.BaseDelayMS > 0 {
		cfg.RetryBaseDelayMS = fc.Retry.BaseDelayMS
	}
	if cfg.RetryBackoffFactor == 0 && fc.Retry.BackoffFactor > 0 {
		cfg.RetryBackoffFactor = fc.Retry.BackoffFactor
	}
	if cfg.StructuredURL == "" && fc.Structured.URL != "" {
		cfg.StructuredURL = fc.Structured.URL
	}
	if cfg.StructuredKey == "" && fc.Structured.Key != "" {
		cfg.StructuredKey = fc.Structured.Key
	}
	if cfg.ExtractURL == "" && fc.Extract.URL != "" {
		cfg.ExtractURL = fc.Extract.URL
	}
	if cfg.ExtractKey == "" && fc.Extract.Key != "" {
		cfg.ExtractKey = fc.Extract.Key
	}
	if cfg.ProxyPrefix == "" && fc.Proxy != "" {
		cfg.ProxyPrefix = fc.Proxy
	}
	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.URL) == "" {
		return errors.New("config: a target URL is required")
	}
	if cfg.RetryMaxAttempts < 0 || cfg.RetryBaseDelayMS < 0 || cfg.AttemptTimeoutMS < 0 {
		return errors.New("config: negative timings are not allowed")
	}
	if cfg.RetryBackoffFactor != 0 && cfg.RetryBackoffFactor < 1 {
		return errors.New("config: retry backoff factor must be >= 1")
	}
	switch cfg.PreferredBackend {
	case "", "structured", "extractapi", "page":
	default:
		return fmt.Errorf("config: unknown backend %q", cfg.PreferredBackend)
	}
	return nil
}
