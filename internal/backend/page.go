package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/tomeapp/goingest/internal/fetch"
)

// Page is the raw-HTML fallback adapter: it fetches the page itself and runs
// a readability heuristic over the markup. Meta tags fill in fields the
// heuristic cannot recover.
type Page struct {
	Fetcher *fetch.Client
}

func (p *Page) Name() string { return "page" }

func (p *Page) Extract(ctx context.Context, pageURL string, timeout time.Duration) (*RawExtraction, error) {
	fetcher := p.Fetcher
	if fetcher == nil {
		fetcher = &fetch.Client{}
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	body, _, err := fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, adapterErr(p.Name(), CodeMalformed, err)
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return nil, adapterErr(p.Name(), CodeMalformed, err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, adapterErr(p.Name(), CodeEmptyContent, fmt.Errorf("no readable content at %s", pageURL))
	}

	raw := &RawExtraction{
		Title:        strings.TrimSpace(article.Title),
		Author:       strings.TrimSpace(article.Byline),
		Content:      article.Content,
		Excerpt:      strings.TrimSpace(article.Excerpt),
		LeadImageURL: strings.TrimSpace(article.Image),
		PublishedAt:  article.PublishedTime,
		SourceURL:    pageURL,
	}

	fillFromMeta(raw, body)
	return raw, nil
}

// fillFromMeta backfills author and lead image from meta tags when the
// readability pass came up empty.
func fillFromMeta(raw *RawExtraction, body []byte) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return
	}
	if raw.Author == "" {
		if author, ok := doc.Find("meta[name='author']").Attr("content"); ok {
			raw.Author = strings.TrimSpace(author)
		}
	}
	if raw.LeadImageURL == "" {
		if img, ok := doc.Find("meta[property='og:image']").Attr("content"); ok {
			raw.LeadImageURL = strings.TrimSpace(img)
		}
	}
	if raw.Excerpt == "" {
		if desc, ok := doc.Find("meta[property='og:description']").Attr("content"); ok {
			raw.Excerpt = strings.TrimSpace(desc)
		}
	}
}
