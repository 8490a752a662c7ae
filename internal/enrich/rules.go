package enrich

import (
	"regexp"
	"strings"
	"time"
)

// Rule tables below are process-wide constants compiled once at init, not
// re-allocated per call.

// dateRule pairs a scan pattern with the layout its matches parse under.
// Commas are stripped from matches before parsing so "March 5, 2024" and
// "March 5 2024" share a layout.
type dateRule struct {
	re     *regexp.Regexp
	layout string
}

var dateRules = []dateRule{
	{regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), "2006-01-02"},
	{regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`), "1/2/2006"},
	{regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`), "1-2-2006"},
	{regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2},? \d{4}\b`), "January 2 2006"},
	{regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) \d{1,2},? \d{4}\b`), "Jan 2 2006"},
}

// dateWindowStart rejects ancient matches as noise; anything after "now" is
// rejected the same way.
var dateWindowStart = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// scanForDate walks the rule table in order and accepts the first match that
// parses to a date inside the plausibility window.
func scanForDate(text string) *time.Time {
	now := time.Now()
	for _, rule := range dateRules {
		for _, match := range rule.re.FindAllString(text, -1) {
			cleaned := strings.ReplaceAll(match, ",", "")
			t, err := time.Parse(rule.layout, cleaned)
			if err != nil {
				continue
			}
			if t.Before(dateWindowStart) || t.After(now) {
				continue
			}
			return &t
		}
	}
	return nil
}

// Content types in fixed priority order: URL hints outrank title hints.
const (
	TypeBlog     = "blog"
	TypeNews     = "news"
	TypeTutorial = "tutorial"
	TypeOpinion  = "opinion"
	TypeArticle  = "article"
	TypeUnknown  = "unknown"
)

func classifyContentType(pageURL, title, text string) string {
	if strings.TrimSpace(text) == "" {
		return TypeUnknown
	}
	u := strings.ToLower(pageURL)
	if strings.Contains(u, "/blog/") || strings.Contains(u, "blog.") {
		return TypeBlog
	}
	if strings.Contains(u, "/news/") || strings.Contains(u, "news.") {
		return TypeNews
	}
	t := strings.ToLower(title)
	for _, hint := range []string{"how to", "tutorial", "guide", "step by step"} {
		if strings.Contains(t, hint) {
			return TypeTutorial
		}
	}
	for _, hint := range []string{"opinion", "op-ed", "editorial", "why i"} {
		if strings.Contains(t, hint) {
			return TypeOpinion
		}
	}
	return TypeArticle
}

// Author confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// authorRules is an ordered table of (pattern, confidence); the first match
// wins, everything else is low.
var authorRules = []struct {
	re         *regexp.Regexp
	confidence string
}{
	// Personal-name shape: capitalized words, optional middle initial.
	{regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z]\.?)*(?: [A-Z][a-z'’-]+)+$`), ConfidenceHigh},
	// At least two tokens of some length: plausibly a byline.
	{regexp.MustCompile(`^\S{2,}(?: +\S{2,})+$`), ConfidenceMedium},
}

func authorConfidence(author string) string {
	author = strings.TrimSpace(author)
	if author == "" || len(author) < 5 {
		return ConfidenceLow
	}
	for _, rule := range authorRules {
		if rule.re.MatchString(author) {
			return rule.confidence
		}
	}
	return ConfidenceLow
}
