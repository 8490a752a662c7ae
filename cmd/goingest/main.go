package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tomeapp/goingest/internal/app"
	"github.com/tomeapp/goingest/internal/orchestrate"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		targetURL     string
		outputPath    string
		backendPref   string
		timeoutMS     int
		retryAttempts int
		retryBaseMS   int
		retryFactor   float64
		structuredURL string
		structuredKey string
		extractURL    string
		extractKey    string
		proxyPrefix   string
		userAgent     string
		configPath    string
		verbose       bool
	)

	flag.StringVar(&targetURL, "url", "", "URL of the page to ingest (or pass as the first argument)")
	flag.StringVar(&outputPath, "output", "", "Path to write the JSON result (default stdout)")
	flag.StringVar(&backendPref, "backend", "", "Preferred extraction backend: structured, extractapi, or page")
	flag.IntVar(&timeoutMS, "timeoutMS", 0, "Per-attempt network timeout in milliseconds (default 15000)")
	flag.IntVar(&retryAttempts, "retry.maxAttempts", 0, "Max attempts per backend (default 3)")
	flag.IntVar(&retryBaseMS, "retry.baseDelayMS", 0, "Base backoff delay in milliseconds (default 1000)")
	flag.Float64Var(&retryFactor, "retry.backoffFactor", 0, "Backoff growth factor (default 2)")
	flag.StringVar(&structuredURL, "structured.url", os.Getenv("STRUCTURED_API_URL"), "Structured extraction service base URL")
	flag.StringVar(&structuredKey, "structured.key", os.Getenv("STRUCTURED_API_KEY"), "Structured extraction API key (optional)")
	flag.StringVar(&extractURL, "extract.url", os.Getenv("EXTRACT_API_URL"), "Extraction API base URL")
	flag.StringVar(&extractKey, "extract.key", os.Getenv("EXTRACT_API_KEY"), "Extraction API key")
	flag.StringVar(&proxyPrefix, "proxy", os.Getenv("FETCH_PROXY_PREFIX"), "Forwarding proxy prefix for raw page fetches (optional)")
	flag.StringVar(&userAgent, "ua", "goingest/1.0 (+https://github.com/tomeapp/goingest)", "User-Agent for upstream requests")
	flag.StringVar(&configPath, "config", os.Getenv("GOINGEST_CONFIG"), "Path to YAML/JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if targetURL == "" && flag.NArg() > 0 {
		targetURL = flag.Arg(0)
	}

	cfg := app.Config{
		URL:                targetURL,
		OutputPath:         outputPath,
		PreferredBackend:   backendPref,
		AttemptTimeoutMS:   timeoutMS,
		RetryMaxAttempts:   retryAttempts,
		RetryBaseDelayMS:   retryBaseMS,
		RetryBackoffFactor: retryFactor,
		StructuredURL:      structuredURL,
		StructuredKey:      structuredKey,
		ExtractURL:         extractURL,
		ExtractKey:         extractKey,
		ProxyPrefix:        proxyPrefix,
		UserAgent:          userAgent,
		Verbose:            verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	if err := app.New(cfg).Run(context.Background()); err != nil {
		// Exit code policy: 2 for terminal ingestion failures (the caller can
		// show "couldn't extract this page"), 1 for anything else.
		var f *orchestrate.Failure
		if errors.As(err, &f) {
			log.Error().Str("code", f.Code).Str("url", f.URL).Msg(f.Message)
			os.Exit(2)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
