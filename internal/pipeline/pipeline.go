// Package pipeline composes the ingestion stages (URL normalization,
// extraction orchestration, sanitization, enrichment) into the single entry
// point consumed by callers.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tomeapp/goingest/internal/backend"
	"github.com/tomeapp/goingest/internal/enrich"
	"github.com/tomeapp/goingest/internal/orchestrate"
	"github.com/tomeapp/goingest/internal/retry"
	"github.com/tomeapp/goingest/internal/sanitize"
)

// Options are per-request knobs; nil means defaults.
type Options struct {
	PreferredBackend string
	Timeout          time.Duration
}

// Article is the fully ingested record: the sanitized document plus its
// derived metadata.
type Article struct {
	sanitize.Article
	Meta enrich.Metadata `json:"metadata"`
}

// Result is a successful ingestion annotated with provenance.
type Result struct {
	Article       *Article `json:"article"`
	Source        string   `json:"source"`
	RetryAttempts int      `json:"retry_attempts"`
}

// Pipeline wires the stages together. A Pipeline is safe for concurrent use:
// each Ingest call builds its own orchestration state.
type Pipeline struct {
	orch orchestrate.Orchestrator
}

// New builds a pipeline over the given extraction backends in their fixed
// fallback order.
func New(backends []backend.Extractor, policy retry.Policy) *Pipeline {
	return &Pipeline{orch: orchestrate.Orchestrator{Backends: backends, Policy: policy}}
}

// Ingest runs the full pipeline for one URL. Errors are always
// *orchestrate.Failure (INVALID_URL or ALL_PARSERS_FAILED) or the caller's
// own context error; sanitization and enrichment degrade instead of failing.
func (p *Pipeline) Ingest(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	req := orchestrate.Request{URL: rawURL}
	if opts != nil {
		req.PreferredBackend = opts.PreferredBackend
		req.Timeout = opts.Timeout
	}

	out, err := p.orch.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	article := sanitize.Sanitize(out.Raw)
	meta := enrich.Enrich(article)

	log.Info().
		Str("url", out.URL).
		Str("source", out.Source).
		Int("attempts", out.Attempts).
		Int("words", meta.WordCount).
		Int("quality", meta.QualityScore).
		Msg("ingested article")

	return &Result{
		Article:       &Article{Article: article, Meta: meta},
		Source:        out.Source,
		RetryAttempts: out.Attempts,
	}, nil
}
