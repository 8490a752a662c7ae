package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "goingest-test", PerRequestTimeout: 2 * time.Second}
	body, ct, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct == "" || string(body) == "" {
		t.Fatalf("expected content type and body")
	}
}

func TestGet_NoRetryOn5xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(502)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, _, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected error on 5xx")
	}
	if calls != 1 {
		t.Fatalf("client must issue exactly one request per Get, got %d", calls)
	}
}

func TestGet_RejectsNonHTMLContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, _, err := c.Get(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "unsupported content type") {
		t.Fatalf("expected content type rejection, got %v", err)
	}
}

func TestGet_ProxyPrefixEncodesTarget(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>proxied</html>"))
	}))
	defer srv.Close()

	c := &Client{ProxyPrefix: srv.URL + "/fetch?url=", PerRequestTimeout: 2 * time.Second}
	target := "https://example.com/post?a=1&b=2"
	body, _, err := c.Get(context.Background(), target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<html>proxied</html>" {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.Contains(gotPath, url.QueryEscape(target)) {
		t.Fatalf("proxy should receive the percent-encoded target, got %q", gotPath)
	}
}

func TestGet_TimeoutSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>late</html>"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 50 * time.Millisecond}
	_, _, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}
