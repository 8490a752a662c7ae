// Package sanitize normalizes raw extracted HTML into a safe, display-ready
// document. It is the single point of format convergence: whichever backend
// produced the raw extraction, the output here has the same shape and the
// same safety guarantees.
package sanitize

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/bidi"

	"github.com/tomeapp/goingest/internal/backend"
	"github.com/tomeapp/goingest/internal/urlnorm"
)

// Article is the cleaned, display-ready form of an extraction. Content holds
// safe HTML: no script/style/ad nodes, lazy-loading images with absolute
// sources, and external links marked to open in an isolated context.
type Article struct {
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	LeadImageURL  string     `json:"lead_image_url"`
	URL           string     `json:"url"`
	Domain        string     `json:"domain"`
	PublishedAt   *time.Time `json:"published_at"`
	WordCount     int        `json:"word_count"`
	Direction     string     `json:"direction"`
	NextPageURL   string     `json:"next_page_url,omitempty"`
	RenderedPages int        `json:"rendered_pages,omitempty"`
}

// adMarkers flag class/id values of nodes that carry ads or tracking widgets.
// Deliberately specific substrings: a bare "ad" would hit words like "shadow".
var adMarkers = []string{
	"advert", "sponsored", "adsbygoogle", "ad-container", "ad-wrapper",
	"ad-banner", "ad-slot", "taboola", "outbrain", "promo-box", "newsletter-signup",
}

// trackingParams are query parameters stripped from the lead image URL.
var trackingParams = map[string]bool{
	"fbclid": true, "gclid": true, "igshid": true,
	"mc_cid": true, "mc_eid": true, "ref_src": true, "cmpid": true,
}

const excerptMaxChars = 160

// Sanitize transforms a raw extraction into a display-ready article. Pure and
// deterministic: identical input yields identical output, and sanitizing
// already-sanitized content is a no-op.
func Sanitize(raw *backend.RawExtraction) Article {
	a := Article{
		Title:         raw.Title,
		Author:        raw.Author,
		Excerpt:       raw.Excerpt,
		URL:           raw.SourceURL,
		Domain:        urlnorm.Domain(raw.SourceURL),
		PublishedAt:   raw.PublishedAt,
		NextPageURL:   raw.NextPageURL,
		RenderedPages: raw.RenderedPages,
	}

	content, text := cleanContent(raw.Content, raw.SourceURL, raw.Title)
	a.Content = content
	a.Direction = textDirection(text)

	a.WordCount = raw.WordCount
	if a.WordCount <= 0 {
		a.WordCount = len(strings.Fields(text))
	}
	if a.Excerpt == "" {
		a.Excerpt = deriveExcerpt(text)
	}
	a.LeadImageURL = cleanLeadImage(raw.LeadImageURL)
	return a
}

// cleanContent runs the DOM passes and returns the cleaned HTML plus its
// plain text for downstream word counting and direction detection.
func cleanContent(rawHTML, pageURL, title string) (string, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// Unparseable markup degrades to escaped-as-text behavior upstream;
		// here we just pass the input through untouched.
		return rawHTML, rawHTML
	}

	doc.Find("script, style, noscript").Remove()
	removeAdContainers(doc)
	rewriteImages(doc, pageURL, title)
	markExternalLinks(doc, pageURL)
	removeEmptyBlocks(doc)

	body := doc.Find("body")
	html, err := body.Html()
	if err != nil {
		return rawHTML, rawHTML
	}
	return strings.TrimSpace(html), body.Text()
}

func removeAdContainers(doc *goquery.Document) {
	doc.Find("[class],[id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		marker := strings.ToLower(class + " " + id)
		for _, m := range adMarkers {
			if strings.Contains(marker, m) {
				s.Remove()
				return
			}
		}
	})
}

// rewriteImages prefers lazy-load source attributes over the eager src (the
// lazy attribute is the real resource on many sites), resolves sources to
// absolute URLs, forces a lazy-loading hint, and injects fallback alt text.
func rewriteImages(doc *goquery.Document, pageURL, title string) {
	base, _ := url.Parse(pageURL)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		for _, lazy := range []string{"data-src", "data-lazy-src", "data-original"} {
			if v, ok := s.Attr(lazy); ok && strings.TrimSpace(v) != "" {
				src = strings.TrimSpace(v)
				s.RemoveAttr(lazy)
				break
			}
		}
		if src == "" {
			s.Remove()
			return
		}
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}
		s.SetAttr("src", src)
		s.SetAttr("loading", "lazy")
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			if title != "" {
				s.SetAttr("alt", title)
			} else {
				s.SetAttr("alt", "Article image")
			}
		}
	})
}

// markExternalLinks isolates absolute external anchors so the extracted
// document cannot control the host page.
func markExternalLinks(doc *goquery.Document, pageURL string) {
	pageHost := ""
	if u, err := url.Parse(pageURL); err == nil {
		pageHost = strings.ToLower(u.Hostname())
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil || !u.IsAbs() {
			return
		}
		scheme := strings.ToLower(u.Scheme)
		if scheme != "http" && scheme != "https" {
			return
		}
		if strings.ToLower(u.Hostname()) == pageHost {
			return
		}
		s.SetAttr("target", "_blank")
		s.SetAttr("rel", "noopener noreferrer")
	})
}

// removeEmptyBlocks drops no-op paragraphs and divs left behind by stripped
// ads. Runs to a fixed point because removing a child can empty its parent.
func removeEmptyBlocks(doc *goquery.Document) {
	for {
		removed := 0
		doc.Find("p, div").Each(func(_ int, s *goquery.Selection) {
			if strings.TrimSpace(s.Text()) != "" {
				return
			}
			if s.Find("img, picture, video, iframe, embed").Length() > 0 {
				return
			}
			s.Remove()
			removed++
		})
		if removed == 0 {
			return
		}
	}
}

// cleanLeadImage strips tracking query parameters. Unparseable URLs are kept
// only when they already look absolute, otherwise nulled out.
func cleanLeadImage(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
			return raw
		}
		return ""
	}
	q := u.Query()
	changed := false
	for key := range q {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") || trackingParams[lower] {
			q.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// textDirection applies the first-strong heuristic over the cleaned text.
func textDirection(text string) string {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return "rtl"
		case bidi.L:
			return "ltr"
		}
	}
	return "ltr"
}

func deriveExcerpt(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if len(flat) <= excerptMaxChars {
		return flat
	}
	cut := flat[:excerptMaxChars]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
