package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ExtractAPI talks to the third-party extraction API: POST /extract with a
// JSON body and an API-key header.
type ExtractAPI struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string
}

func (e *ExtractAPI) Name() string { return "extractapi" }

func (e *ExtractAPI) Extract(ctx context.Context, pageURL string, timeout time.Duration) (*RawExtraction, error) {
	if e.BaseURL == "" {
		return nil, adapterErr(e.Name(), CodeNetwork, fmt.Errorf("missing extract api base url"))
	}
	endpoint := strings.TrimRight(e.BaseURL, "/") + "/extract"

	body, err := json.Marshal(map[string]string{"url": pageURL})
	if err != nil {
		return nil, adapterErr(e.Name(), CodeMalformed, err)
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, adapterErr(e.Name(), CodeNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("x-api-key", e.APIKey)
	}
	if e.UserAgent != "" {
		req.Header.Set("User-Agent", e.UserAgent)
	}

	hc := e.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, classifyTransport(e.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, adapterErr(e.Name(), CodeNetwork, fmt.Errorf("extract api status: %d", resp.StatusCode))
	}

	var payload struct {
		HTML        string `json:"html"`
		Content     string `json:"content"`
		Text        string `json:"text"`
		Title       string `json:"title"`
		Author      string `json:"author"`
		Image       string `json:"image"`
		PublishDate string `json:"publish_date"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, adapterErr(e.Name(), CodeMalformed, err)
	}

	// The provider reports content under one of three keys; richest wins.
	content := payload.HTML
	if strings.TrimSpace(content) == "" {
		content = payload.Content
	}
	if strings.TrimSpace(content) == "" {
		content = payload.Text
	}
	if strings.TrimSpace(content) == "" {
		return nil, adapterErr(e.Name(), CodeEmptyContent, fmt.Errorf("extract api returned no content"))
	}

	return &RawExtraction{
		Title:        strings.TrimSpace(payload.Title),
		Author:       strings.TrimSpace(payload.Author),
		Content:      content,
		LeadImageURL: strings.TrimSpace(payload.Image),
		PublishedAt:  parseDate(payload.PublishDate),
		SourceURL:    pageURL,
	}, nil
}
