package enrich

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomeapp/goingest/internal/sanitize"
)

func articleWithWords(n int) sanitize.Article {
	return sanitize.Article{
		Title:   "Some Ordinary Title",
		URL:     "https://example.com/posts/1",
		Domain:  "example.com",
		Content: "<p>" + strings.TrimSpace(strings.Repeat("word ", n)) + "</p>",
	}
}

func TestEnrich_ReadingTime(t *testing.T) {
	m := Enrich(articleWithWords(400))
	if m.WordCount != 400 {
		t.Fatalf("expected 400 words, got %d", m.WordCount)
	}
	if m.ReadingTimeMinutes != 2 {
		t.Fatalf("400 words should read in 2 minutes, got %d", m.ReadingTimeMinutes)
	}
	if got := Enrich(articleWithWords(3)).ReadingTimeMinutes; got != 1 {
		t.Fatalf("reading time floor is 1 minute, got %d", got)
	}
	if got := Enrich(articleWithWords(401)).ReadingTimeMinutes; got != 3 {
		t.Fatalf("reading time rounds up, got %d", got)
	}
}

func TestEnrich_PrefersUpstreamDate(t *testing.T) {
	upstream := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	a := articleWithWords(50)
	a.PublishedAt = &upstream
	a.Content = "<p>Published 2019-01-01. " + strings.Repeat("word ", 50) + "</p>"
	m := Enrich(a)
	if m.PublishedDate == nil || !m.PublishedDate.Equal(upstream) {
		t.Fatalf("upstream date must win over scanned dates, got %v", m.PublishedDate)
	}
	if !m.EstimatedPublishDate.Equal(upstream) {
		t.Fatalf("estimated date should follow the found date")
	}
}

func TestScanForDate_PatternsAndWindow(t *testing.T) {
	cases := []struct {
		text string
		want string // "2006-01-02" or "" for none
	}{
		{"posted on 2024-03-05 by staff", "2024-03-05"},
		{"updated 3/5/2024 morning edition", "2024-03-05"},
		{"updated 03-05-2024 morning edition", "2024-03-05"},
		{"Published March 5, 2024 in the archive", "2024-03-05"},
		{"Published Mar 5 2024 in the archive", "2024-03-05"},
		{"founded in 1850-01-01, a very old mill", ""},
		{"scheduled for 2999-12-31 someday", ""},
		{"no dates here at all", ""},
		{"13/45/2024 is not a date but 2020-07-14 is", "2020-07-14"},
	}
	for _, tc := range cases {
		got := scanForDate(tc.text)
		if tc.want == "" {
			if got != nil {
				t.Fatalf("%q: expected no date, got %v", tc.text, got)
			}
			continue
		}
		if got == nil || got.Format("2006-01-02") != tc.want {
			t.Fatalf("%q: expected %s, got %v", tc.text, tc.want, got)
		}
	}
}

func TestClassifyContentType(t *testing.T) {
	cases := []struct {
		url, title, want string
	}{
		{"https://example.com/blog/my-post", "How to do everything", TypeBlog}, // URL outranks title
		{"https://news.example.com/story", "Editorial notes", TypeNews},
		{"https://example.com/news/today", "anything", TypeNews},
		{"https://example.com/posts/1", "How to brew coffee", TypeTutorial},
		{"https://example.com/posts/1", "A beginner's guide to Go", TypeTutorial},
		{"https://example.com/posts/1", "Opinion: taxes are weird", TypeOpinion},
		{"https://example.com/posts/1", "Just a story", TypeArticle},
	}
	for _, tc := range cases {
		if got := classifyContentType(tc.url, tc.title, "non-empty body"); got != tc.want {
			t.Fatalf("(%s, %s): expected %s, got %s", tc.url, tc.title, tc.want, got)
		}
	}
	if got := classifyContentType("https://example.com", "title", "   "); got != TypeUnknown {
		t.Fatalf("empty content should classify as unknown, got %s", got)
	}
}

func TestTopicTags_TechnologyArticle(t *testing.T) {
	body := strings.Repeat("machine learning and software and programming matter. ", 20) +
		strings.Repeat("filler words beyond the keywords themselves go here too. ", 60)
	a := sanitize.Article{
		Title:   "Machine Learning Software Programming Notes",
		Excerpt: "A piece about machine learning and software.",
		URL:     "https://example.com/posts/ml",
		Domain:  "example.com",
		Content: "<p>" + body + "</p>",
	}
	m := Enrich(a)
	if m.WordCount <= 500 {
		t.Fatalf("fixture should exceed 500 words, got %d", m.WordCount)
	}
	found := false
	for _, tag := range m.TopicTags {
		if tag == "technology" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected technology tag, got %v", m.TopicTags)
	}
}

func TestTopicTags_LengthGate(t *testing.T) {
	a := sanitize.Article{
		Title:   "machine learning software programming",
		URL:     "https://example.com/short",
		Domain:  "example.com",
		Content: "<p>" + strings.Repeat("machine learning software programming code cloud. ", 8) + "</p>",
	}
	m := Enrich(a)
	if m.WordCount >= 100 {
		t.Fatalf("fixture should stay under the word gate, got %d", m.WordCount)
	}
	if len(m.TopicTags) != 0 {
		t.Fatalf("short content must yield no tags regardless of keyword density, got %v", m.TopicTags)
	}
}

func TestTopicTags_DomainInjectionBypassesThreshold(t *testing.T) {
	a := articleWithWords(200)
	a.Domain = "github.com"
	m := Enrich(a)
	found := false
	for _, tag := range m.TopicTags {
		if tag == "technology" {
			found = true
		}
	}
	if !found {
		t.Fatalf("code-hosting domain should inject technology tag, got %v", m.TopicTags)
	}
}

func TestTopicTags_CappedAtFiveInEvaluationOrder(t *testing.T) {
	// One keyword from six topics, each twice in the title (weight 3 => score 6,
	// at or above the maximum threshold).
	a := sanitize.Article{
		Title:   "software software research research market market election election game game movie movie",
		URL:     "https://example.com/everything",
		Domain:  "example.com",
		Content: "<p>" + strings.Repeat("word ", 150) + "</p>",
	}
	m := Enrich(a)
	want := []string{"technology", "science", "business", "politics", "sports"}
	if len(m.TopicTags) != len(want) {
		t.Fatalf("expected cap at 5 tags, got %v", m.TopicTags)
	}
	for i := range want {
		if m.TopicTags[i] != want[i] {
			t.Fatalf("tags must preserve evaluation order, got %v", m.TopicTags)
		}
	}
}

func TestAuthorConfidence(t *testing.T) {
	cases := []struct {
		author, want string
	}{
		{"Jane Doe", ConfidenceHigh},
		{"Jane A. Doe", ConfidenceHigh},
		{"Jean-Luc O'Brien", ConfidenceMedium}, // hyphenated first token misses the name shape
		{"CNN Staff", ConfidenceMedium},
		{"the sports desk", ConfidenceMedium},
		{"admin", ConfidenceLow},
		{"", ConfidenceLow},
		{"J D", ConfidenceLow},
	}
	for _, tc := range cases {
		if got := authorConfidence(tc.author); got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.author, tc.want, got)
		}
	}
}

func TestEnrich_ImageAndLinkCounts(t *testing.T) {
	a := sanitize.Article{
		URL:    "https://example.com/x",
		Domain: "example.com",
		Content: `<p>body text <a href="https://a.test">one</a> <a href="https://b.test">two</a></p>
			<img src="https://example.com/1.png" loading="lazy" alt="x">
			<img src="https://example.com/2.png" loading="lazy" alt="y">`,
	}
	m := Enrich(a)
	if m.ImageCount != 2 || m.LinkCount != 2 {
		t.Fatalf("expected 2 images and 2 links, got %d/%d", m.ImageCount, m.LinkCount)
	}
}

func TestQualityScore_RichArticleClampsAtTen(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := sanitize.Article{
		Title:        "A Long and Substantive Article Title",
		Author:       "Jane Doe",
		Excerpt:      strings.Repeat("a meaningful excerpt sentence ", 3),
		URL:          "https://example.com/rich",
		Domain:       "example.com",
		LeadImageURL: "https://example.com/lead.jpg",
		PublishedAt:  &date,
		Content: "<p>" + strings.Repeat("word ", 1200) + "</p>" +
			strings.Repeat(`<a href="https://x.test">l</a>`, 6) +
			`<img src="https://example.com/i.png" alt="i">`,
	}
	m := Enrich(a)
	if m.QualityScore != 10 {
		t.Fatalf("rich article should clamp at 10, got %d", m.QualityScore)
	}
}

func TestQualityScore_AlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	authors := []string{"", "admin", "Jane Doe", "the news desk", "X"}
	for i := 0; i < 1000; i++ {
		words := rng.Intn(1500)
		a := sanitize.Article{
			Title:   strings.Repeat("t", rng.Intn(40)),
			Author:  authors[rng.Intn(len(authors))],
			Excerpt: strings.Repeat("e", rng.Intn(120)),
			URL:     fmt.Sprintf("https://example.com/p/%d", i),
			Domain:  "example.com",
			Content: "<p>" + strings.Repeat("word ", words) + "</p>" +
				strings.Repeat(`<a href="https://x.test">l</a>`, rng.Intn(10)) +
				strings.Repeat(`<img src="https://example.com/i.png" alt="i">`, rng.Intn(3)),
		}
		if rng.Intn(2) == 0 {
			d := time.Date(1990+rng.Intn(30), 1, 1, 0, 0, 0, 0, time.UTC)
			a.PublishedAt = &d
		}
		if rng.Intn(2) == 0 {
			a.LeadImageURL = "https://example.com/lead.jpg"
		}
		m := Enrich(a)
		if m.QualityScore < 1 || m.QualityScore > 10 {
			t.Fatalf("iteration %d: quality score %d out of [1,10] for %+v", i, m.QualityScore, a)
		}
	}
}
