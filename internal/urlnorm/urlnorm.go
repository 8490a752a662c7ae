package urlnorm

import (
	"fmt"
	"net/url"
	"strings"
)

// InvalidURLError reports input that could not be coerced into an absolute
// http(s) URL. The original input is retained for error surfaces.
type InvalidURLError struct {
	Raw string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url: %q", e.Raw)
}

// Normalize validates and canonicalizes a raw URL string. Inputs without a
// scheme are coerced to https before validation; http and https are the only
// accepted schemes. The function is pure and never guesses plain http.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &InvalidURLError{Raw: raw}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", &InvalidURLError{Raw: raw}
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", &InvalidURLError{Raw: raw}
	}
	if u.Host == "" || (!strings.Contains(u.Host, ".") && !strings.HasPrefix(u.Host, "localhost")) {
		return "", &InvalidURLError{Raw: raw}
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// Domain returns the registrable-ish host of a canonical URL with any
// leading www. stripped. Empty on parse failure.
func Domain(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
