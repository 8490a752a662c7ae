package enrich

import (
	"math"
	"regexp"
	"strings"
)

// topicOrder fixes the evaluation (and therefore output) order of topics.
var topicOrder = []string{
	"technology", "science", "business", "politics", "sports",
	"entertainment", "travel", "food", "lifestyle", "education",
}

var topicKeywords = map[string][]string{
	"technology":    {"software", "programming", "machine learning", "artificial intelligence", "computer", "hardware", "startup", "cloud", "developer", "code"},
	"science":       {"research", "study", "scientists", "physics", "biology", "chemistry", "climate", "experiment", "discovery", "laboratory"},
	"business":      {"market", "economy", "revenue", "investor", "earnings", "merger", "finance", "shares", "quarterly", "acquisition"},
	"politics":      {"election", "senate", "congress", "policy", "government", "president", "legislation", "campaign", "parliament", "minister"},
	"sports":        {"game", "season", "championship", "league", "coach", "tournament", "playoff", "athlete", "match", "team"},
	"entertainment": {"movie", "film", "album", "celebrity", "television", "series", "music", "concert", "actor", "premiere"},
	"travel":        {"travel", "flight", "destination", "hotel", "itinerary", "tourism", "vacation", "backpacking", "airline"},
	"food":          {"recipe", "restaurant", "ingredients", "cooking", "chef", "cuisine", "baking", "flavor", "dish"},
	"lifestyle":     {"wellness", "fashion", "fitness", "minimalism", "habits", "mindfulness", "self-care", "wardrobe"},
	"education":     {"students", "curriculum", "university", "classroom", "teacher", "school", "tuition", "learning", "exam"},
}

// domainTopics injects high-confidence tags from recognizable publisher
// domains; these bypass the score threshold. Ordered so output is stable.
var domainTopics = []struct {
	substr string
	topic  string
}{
	{"github", "technology"},
	{"gitlab", "technology"},
	{"stackoverflow", "technology"},
	{"techcrunch", "technology"},
	{"arstechnica", "technology"},
	{"hackernews", "technology"},
	{"espn", "sports"},
	{"bleacherreport", "sports"},
	{"bloomberg", "business"},
	{"forbes", "business"},
	{"marketwatch", "business"},
	{"politico", "politics"},
	{"variety", "entertainment"},
	{"billboard", "entertainment"},
	{"tripadvisor", "travel"},
	{"lonelyplanet", "travel"},
	{"allrecipes", "food"},
	{"epicurious", "food"},
}

// topicMatchers holds one whole-word matcher per keyword, compiled once.
var topicMatchers = func() map[string][]*regexp.Regexp {
	m := make(map[string][]*regexp.Regexp, len(topicKeywords))
	for topic, keywords := range topicKeywords {
		res := make([]*regexp.Regexp, 0, len(keywords))
		for _, kw := range keywords {
			res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		m[topic] = res
	}
	return m
}()

const (
	// Short content produces unreliable signal; below these floors keyword
	// classification is skipped entirely.
	minTagChars = 100
	minTagWords = 100

	maxTags = 5

	titleWeight   = 3
	excerptWeight = 2
	contentWeight = 1
)

// topicTags scores each topic's keywords against title, excerpt and content
// (whole-word, lower-cased) and keeps topics whose score clears a threshold
// that rises with article length, so long articles need proportionally
// stronger signal. Domain-recognized tags bypass the threshold. The result is
// deduplicated and capped, preserving evaluation order.
func topicTags(title, excerpt, content, domain string, wordCount int) []string {
	if len(content) < minTagChars || wordCount < minTagWords {
		return nil
	}

	title = strings.ToLower(title)
	excerpt = strings.ToLower(excerpt)
	content = strings.ToLower(content)

	threshold := 3 + math.Min(float64(wordCount)/500, 3)

	var tags []string
	seen := make(map[string]bool)
	for _, topic := range topicOrder {
		score := 0
		for _, re := range topicMatchers[topic] {
			score += titleWeight * countMatches(re, title)
			score += excerptWeight * countMatches(re, excerpt)
			score += contentWeight * countMatches(re, content)
		}
		if float64(score) >= threshold && !seen[topic] {
			seen[topic] = true
			tags = append(tags, topic)
		}
	}

	for _, d := range domainTopics {
		if strings.Contains(domain, d.substr) && !seen[d.topic] {
			seen[d.topic] = true
			tags = append(tags, d.topic)
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

func countMatches(re *regexp.Regexp, text string) int {
	return len(re.FindAllStringIndex(text, -1))
}
