package app

// Config holds runtime configuration for the ingestion CLI.
type Config struct {
	// Target
	URL        string
	OutputPath string // empty writes to stdout

	// Per-request behavior
	PreferredBackend string
	AttemptTimeoutMS int

	// Retry policy (immutable after start)
	RetryMaxAttempts   int
	RetryBaseDelayMS   int
	RetryBackoffFactor float64

	// Upstream services
	StructuredURL string
	StructuredKey string
	ExtractURL    string
	ExtractKey    string

	// Transport
	ProxyPrefix string
	UserAgent   string

	Verbose bool
}
