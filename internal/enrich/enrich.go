// Package enrich derives display metadata from a sanitized article: reading
// time, publication date, content classification, topic tags, and a bounded
// quality score. Enrichment never fails the pipeline; when signal is missing
// it degrades to defaults instead of returning errors.
package enrich

import (
	"math"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/tomeapp/goingest/internal/sanitize"
)

// Metadata is recomputed on every ingestion and never mutated in place.
type Metadata struct {
	ReadingTimeMinutes   int        `json:"reading_time_minutes"`
	WordCount            int        `json:"word_count"`
	PublishedDate        *time.Time `json:"published_date"`
	EstimatedPublishDate time.Time  `json:"estimated_publish_date"`
	ContentType          string     `json:"content_type"`
	TopicTags            []string   `json:"topic_tags"`
	ImageCount           int        `json:"image_count"`
	LinkCount            int        `json:"link_count"`
	AuthorConfidence     string     `json:"author_confidence"`
	QualityScore         int        `json:"quality_score"`
}

const wordsPerMinute = 200

// Enrich derives metadata from a sanitized article.
func Enrich(a sanitize.Article) Metadata {
	text, imageCount, linkCount := stripMarkup(a.Content)
	words := strings.Fields(text)
	wordCount := len(words)

	readingTime := (wordCount + wordsPerMinute - 1) / wordsPerMinute
	if readingTime < 1 {
		readingTime = 1
	}

	published := a.PublishedAt
	if published == nil {
		published = scanForDate(text)
	}
	estimated := time.Now()
	if published != nil {
		estimated = *published
	}

	confidence := authorConfidence(a.Author)

	m := Metadata{
		ReadingTimeMinutes:   readingTime,
		WordCount:            wordCount,
		PublishedDate:        published,
		EstimatedPublishDate: estimated,
		ContentType:          classifyContentType(a.URL, a.Title, text),
		TopicTags:            topicTags(a.Title, a.Excerpt, text, a.Domain, wordCount),
		ImageCount:           imageCount,
		LinkCount:            linkCount,
		AuthorConfidence:     confidence,
	}
	m.QualityScore = qualityScore(a, m)
	return m
}

// stripMarkup flattens remaining HTML to plain text and counts images and
// links along the way.
func stripMarkup(content string) (string, int, int) {
	tz := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	images, links := 0, 0
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return b.String(), images, links
		case html.TextToken:
			b.Write(tz.Text())
			b.WriteByte(' ')
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tz.TagName()
			switch string(name) {
			case "img":
				images++
			case "a":
				links++
			}
		}
	}
}

func qualityScore(a sanitize.Article, m Metadata) int {
	score := 5.0
	switch {
	case m.WordCount > 1000:
		score += 2
	case m.WordCount > 500:
		score += 1
	}
	if m.WordCount < 100 {
		score -= 2
	}
	if len(a.Title) > 10 {
		score += 1
	}
	if len(a.Excerpt) > 50 {
		score += 1
	}
	switch m.AuthorConfidence {
	case ConfidenceHigh:
		score += 1
	case ConfidenceLow:
		score -= 1
	}
	if m.PublishedDate != nil {
		score += 1
	}
	if a.LeadImageURL != "" {
		score += 1
	}
	if m.ImageCount > 0 {
		score += 0.5
	}
	if m.LinkCount > 5 {
		score += 0.5
	}
	rounded := int(math.Round(score))
	if rounded < 1 {
		return 1
	}
	if rounded > 10 {
		return 10
	}
	return rounded
}
