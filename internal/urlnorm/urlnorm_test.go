package urlnorm

import (
	"errors"
	"testing"
)

func TestNormalize_PrependsHTTPS(t *testing.T) {
	got, err := Normalize("example.com/post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://example.com/post" {
		t.Fatalf("expected https scheme prepended, got %q", got)
	}
}

func TestNormalize_KeepsExplicitHTTP(t *testing.T) {
	got, err := Normalize("http://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "http://example.com" {
		t.Fatalf("expected http preserved, got %q", got)
	}
}

func TestNormalize_LowercasesHost(t *testing.T) {
	got, err := Normalize("HTTPS://Example.COM/Path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://example.com/Path" {
		t.Fatalf("host should be lowercased, path preserved; got %q", got)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	cases := []string{"", "   ", "\t\n", "not a url at all", "ftp://example.com", "javascript:alert(1)", "://missing"}
	for _, raw := range cases {
		_, err := Normalize(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		var invalid *InvalidURLError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected *InvalidURLError for %q, got %T", raw, err)
		}
		if invalid.Raw != raw {
			t.Fatalf("error should carry original input, got %q", invalid.Raw)
		}
	}
}

func TestDomain_StripsWWW(t *testing.T) {
	if d := Domain("https://www.example.com/post"); d != "example.com" {
		t.Fatalf("expected example.com, got %q", d)
	}
	if d := Domain("https://news.example.com/a"); d != "news.example.com" {
		t.Fatalf("subdomains other than www should be kept, got %q", d)
	}
}
