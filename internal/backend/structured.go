package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Structured talks to the structured-extraction service: a GET endpoint that
// accepts a percent-encoded target URL and returns parsed article fields.
type Structured struct {
	BaseURL    string
	APIKey     string // optional
	HTTPClient *http.Client
	UserAgent  string
}

func (s *Structured) Name() string { return "structured" }

func (s *Structured) Extract(ctx context.Context, pageURL string, timeout time.Duration) (*RawExtraction, error) {
	if s.BaseURL == "" {
		return nil, adapterErr(s.Name(), CodeNetwork, fmt.Errorf("missing structured extraction base url"))
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, adapterErr(s.Name(), CodeNetwork, err)
	}
	q := u.Query()
	q.Set("url", pageURL)
	u.RawQuery = q.Encode()

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, adapterErr(s.Name(), CodeNetwork, err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, classifyTransport(s.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, adapterErr(s.Name(), CodeNetwork, fmt.Errorf("structured extraction status: %d", resp.StatusCode))
	}

	var payload struct {
		Title         string `json:"title"`
		Content       string `json:"content"`
		Author        string `json:"author"`
		Excerpt       string `json:"excerpt"`
		LeadImageURL  string `json:"lead_image_url"`
		DatePublished string `json:"date_published"`
		WordCount     int    `json:"word_count"`
		NextPageURL   string `json:"next_page_url"`
		RenderedPages int    `json:"rendered_pages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, adapterErr(s.Name(), CodeMalformed, err)
	}
	if strings.TrimSpace(payload.Content) == "" {
		return nil, adapterErr(s.Name(), CodeEmptyContent, fmt.Errorf("structured extraction returned no content"))
	}

	return &RawExtraction{
		Title:         strings.TrimSpace(payload.Title),
		Author:        strings.TrimSpace(payload.Author),
		Content:       payload.Content,
		Excerpt:       strings.TrimSpace(payload.Excerpt),
		LeadImageURL:  strings.TrimSpace(payload.LeadImageURL),
		PublishedAt:   parseDate(payload.DatePublished),
		WordCount:     payload.WordCount,
		NextPageURL:   strings.TrimSpace(payload.NextPageURL),
		RenderedPages: payload.RenderedPages,
		SourceURL:     pageURL,
	}, nil
}
