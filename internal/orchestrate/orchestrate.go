package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tomeapp/goingest/internal/backend"
	"github.com/tomeapp/goingest/internal/retry"
	"github.com/tomeapp/goingest/internal/urlnorm"
)

// Failure codes visible to callers. Per-attempt adapter errors are logged at
// this boundary and never surfaced directly.
const (
	CodeInvalidURL       = "INVALID_URL"
	CodeAllParsersFailed = "ALL_PARSERS_FAILED"
)

// DefaultAttemptTimeout bounds a single adapter attempt when the request does
// not specify one.
const DefaultAttemptTimeout = 15 * time.Second

// Failure is the only error type Run returns. Message is suitable for a
// user-facing "couldn't extract this page" surface.
type Failure struct {
	Code    string
	Message string
	URL     string
	Details []string
}

func (f *Failure) Error() string {
	if len(f.Details) > 0 {
		return fmt.Sprintf("%s: %s (%s)", f.Code, f.Message, strings.Join(f.Details, "; "))
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Request describes a single extraction. Immutable once built.
type Request struct {
	URL              string
	PreferredBackend string
	// Timeout bounds each adapter attempt, not the whole orchestration.
	Timeout time.Duration
}

// Outcome is a successful extraction annotated with which backend produced it
// and how many tries that backend needed.
type Outcome struct {
	Raw      *backend.RawExtraction
	URL      string
	Source   string
	Attempts int
}

// Orchestrator owns the ordered-fallback, bounded-retry policy across
// extraction backends. Each backend is retried up to Policy.MaxAttempts with
// exponential backoff before the next backend is tried, so the worst-case
// wall clock is len(Backends) * Policy.MaxAttempts * attempt timeout plus the
// backoff sleeps. Callers wanting a tighter overall bound must cancel the
// context themselves.
//
// A fresh Orchestrator value is cheap; concurrent Run calls share no mutable
// state and need no locking.
type Orchestrator struct {
	Backends []backend.Extractor
	Policy   retry.Policy
}

// Run normalizes the URL and walks the backend list in preference order.
// The first successful attempt anywhere in the ordered list wins.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	canonical, err := urlnorm.Normalize(req.URL)
	if err != nil {
		return nil, &Failure{
			Code:    CodeInvalidURL,
			Message: fmt.Sprintf("not a valid http(s) URL: %q", req.URL),
			URL:     req.URL,
		}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	policy := o.Policy
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy
	}

	var details []string
	for _, b := range orderBackends(o.Backends, req.PreferredBackend) {
		attempted, err := retry.Do(ctx, policy, func(ctx context.Context) (*backend.RawExtraction, error) {
			return b.Extract(ctx, canonical, timeout)
		})
		if err == nil {
			log.Debug().
				Str("backend", b.Name()).
				Int("attempts", attempted.Attempts).
				Str("url", canonical).
				Msg("extraction succeeded")
			return &Outcome{
				Raw:      attempted.Value,
				URL:      canonical,
				Source:   b.Name(),
				Attempts: attempted.Attempts,
			}, nil
		}
		if ctx.Err() != nil {
			// Caller aborted; do not dress this up as an upstream failure.
			return nil, ctx.Err()
		}
		log.Warn().
			Err(err).
			Str("backend", b.Name()).
			Int("attempts", attempted.Attempts).
			Str("url", canonical).
			Msg("extraction backend exhausted; falling back")
		details = append(details, err.Error())
	}

	return nil, &Failure{
		Code:    CodeAllParsersFailed,
		Message: "all extraction backends failed for this page",
		URL:     canonical,
		Details: details,
	}
}

// orderBackends moves the preferred backend to the front while keeping the
// remaining fixed order, yielding a total fallback ordering: every backend is
// eventually tried regardless of preference.
func orderBackends(backends []backend.Extractor, preferred string) []backend.Extractor {
	if preferred == "" {
		return backends
	}
	ordered := make([]backend.Extractor, 0, len(backends))
	for _, b := range backends {
		if b.Name() == preferred {
			ordered = append(ordered, b)
		}
	}
	for _, b := range backends {
		if b.Name() != preferred {
			ordered = append(ordered, b)
		}
	}
	return ordered
}
