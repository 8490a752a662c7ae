package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// RawExtraction is the common intermediate form produced by every adapter.
// Field mapping from provider-specific payloads happens inside the adapter;
// missing optional fields are explicit zero values, never dropped. Content
// holds HTML or plain text depending on what the provider returned.
type RawExtraction struct {
	Title         string
	Author        string
	Content       string
	Excerpt       string
	LeadImageURL  string
	PublishedAt   *time.Time
	WordCount     int
	NextPageURL   string
	RenderedPages int
	SourceURL     string
}

// Code identifies an adapter failure mode.
type Code string

const (
	CodeEmptyContent Code = "EMPTY_CONTENT"
	CodeNetwork      Code = "NETWORK"
	CodeTimeout      Code = "TIMEOUT"
	CodeMalformed    Code = "MALFORMED_RESPONSE"
)

// AdapterError is the single failure type for all adapters. The orchestrator
// treats every code as retryable.
type AdapterError struct {
	Backend string
	Code    Code
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Backend, e.Code)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Extractor is the shared capability contract for upstream extraction
// services. Implementations issue exactly one network call per Extract, hold
// no state between calls, and report failures as *AdapterError.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pageURL string, timeout time.Duration) (*RawExtraction, error)
}

func adapterErr(backend string, code Code, err error) *AdapterError {
	return &AdapterError{Backend: backend, Code: code, Err: err}
}

// classifyTransport buckets a transport-level error into TIMEOUT or NETWORK.
func classifyTransport(backend string, err error) *AdapterError {
	if errors.Is(err, context.DeadlineExceeded) {
		return adapterErr(backend, CodeTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return adapterErr(backend, CodeTimeout, err)
	}
	return adapterErr(backend, CodeNetwork, err)
}

// parseDate tries the date layouts upstream services are known to emit.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC1123,
		time.RFC1123Z,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
