package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tomeapp/goingest/internal/backend"
	"github.com/tomeapp/goingest/internal/fetch"
	"github.com/tomeapp/goingest/internal/pipeline"
	"github.com/tomeapp/goingest/internal/retry"
)

// App wires configuration into a ready pipeline and owns the output surface.
type App struct {
	cfg  Config
	pipe *pipeline.Pipeline
}

// New builds the backend list in its fixed fallback order: the structured
// extraction service, the third-party extraction API, then the raw page
// fetch. Backends without a configured endpoint are skipped; the page backend
// needs no endpoint and is always present.
func New(cfg Config) *App {
	httpClient := &http.Client{}

	var backends []backend.Extractor
	if cfg.StructuredURL != "" {
		backends = append(backends, &backend.Structured{
			BaseURL:    cfg.StructuredURL,
			APIKey:     cfg.StructuredKey,
			HTTPClient: httpClient,
			UserAgent:  cfg.UserAgent,
		})
	}
	if cfg.ExtractURL != "" {
		backends = append(backends, &backend.ExtractAPI{
			BaseURL:    cfg.ExtractURL,
			APIKey:     cfg.ExtractKey,
			HTTPClient: httpClient,
			UserAgent:  cfg.UserAgent,
		})
	}
	backends = append(backends, &backend.Page{
		Fetcher: &fetch.Client{
			HTTPClient:  httpClient,
			UserAgent:   cfg.UserAgent,
			ProxyPrefix: cfg.ProxyPrefix,
		},
	})

	policy := retry.DefaultPolicy
	if cfg.RetryMaxAttempts > 0 {
		policy.MaxAttempts = cfg.RetryMaxAttempts
	}
	if cfg.RetryBaseDelayMS > 0 {
		policy.BaseDelay = time.Duration(cfg.RetryBaseDelayMS) * time.Millisecond
	}
	if cfg.RetryBackoffFactor >= 1 {
		policy.BackoffFactor = cfg.RetryBackoffFactor
	}

	return &App{cfg: cfg, pipe: pipeline.New(backends, policy)}
}

// Run ingests the configured URL and writes the result as JSON.
func (a *App) Run(ctx context.Context) error {
	var opts *pipeline.Options
	if a.cfg.PreferredBackend != "" || a.cfg.AttemptTimeoutMS > 0 {
		opts = &pipeline.Options{
			PreferredBackend: a.cfg.PreferredBackend,
			Timeout:          time.Duration(a.cfg.AttemptTimeoutMS) * time.Millisecond,
		}
	}

	res, err := a.pipe.Ingest(ctx, a.cfg.URL, opts)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	out = append(out, '\n')

	if a.cfg.OutputPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote result")
	return nil
}
