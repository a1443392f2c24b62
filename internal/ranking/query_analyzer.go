// Package ranking provides query analysis and relevance scoring for aggregated results.
package ranking

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// themePattern matches a repercussão geral / repetitive-appeal theme citation
// such as "Tema 123" or "tema1046". Any Unicode space, NBSP included, may
// separate the word from the number.
var themePattern = regexp.MustCompile(`(?i)tema[\s\p{Zs}]*(\d+)`)

var phrasePattern = regexp.MustCompile(`"([^"]+)"`)

var stopWords = map[string]bool{
	"a": true, "o": true, "as": true, "os": true, "e": true, "ou": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"em": true, "na": true, "no": true, "nas": true, "nos": true,
	"um": true, "uma": true, "por": true, "para": true, "com": true,
	"sem": true, "que": true, "se": true, "ao": true, "aos": true,
}

// AnalyzedQuery holds the parsed form of a search query.
type AnalyzedQuery struct {
	// Original is the query as received.
	Original string
	// Terms are folded (lowercase, accent-free) tokens without stop words.
	Terms []string
	// Phrases are quoted segments, folded.
	Phrases []string
	// Themes are the theme numbers cited in the query, in order of appearance.
	Themes []int
}

// QueryAnalyzer analyzes search queries to extract terms, phrases, and theme citations.
type QueryAnalyzer struct{}

// NewQueryAnalyzer creates a new QueryAnalyzer.
func NewQueryAnalyzer() *QueryAnalyzer {
	return &QueryAnalyzer{}
}

// Analyze parses a query string and returns an AnalyzedQuery.
func (qa *QueryAnalyzer) Analyze(query string) *AnalyzedQuery {
	result := &AnalyzedQuery{
		Original: query,
		Terms:    []string{},
		Phrases:  []string{},
		Themes:   []int{},
	}

	for _, m := range themePattern.FindAllStringSubmatch(query, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.Themes = append(result.Themes, n)
		}
	}

	for _, m := range phrasePattern.FindAllStringSubmatch(query, -1) {
		if p := Fold(strings.TrimSpace(m[1])); p != "" {
			result.Phrases = append(result.Phrases, p)
		}
	}

	seen := make(map[string]bool)
	for _, word := range strings.Fields(phrasePattern.ReplaceAllString(query, " $1 ")) {
		term := qa.normalizeToken(word)
		if term == "" || stopWords[term] || seen[term] {
			continue
		}
		seen[term] = true
		result.Terms = append(result.Terms, term)
	}
	return result
}

// normalizeToken folds a token and trims punctuation from its edges.
func (qa *QueryAnalyzer) normalizeToken(token string) string {
	token = Fold(token)
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '/'
	})
}

// MatchesTheme reports whether text contains the theme citation pattern.
func MatchesTheme(text string) bool {
	return themePattern.MatchString(text)
}

// Fold lowercases s and strips diacritics, so "Ação" and "acao" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// CountMatchingTerms counts how many terms occur in the folded text.
func CountMatchingTerms(terms []string, text string) int {
	if len(terms) == 0 {
		return 0
	}
	folded := Fold(text)
	count := 0
	for _, term := range terms {
		if strings.Contains(folded, term) {
			count++
		}
	}
	return count
}

// Matches reports whether text is relevant to the analyzed query: every phrase
// must occur, and at least one term must occur when there are terms.
func (q *AnalyzedQuery) Matches(text string) bool {
	folded := Fold(text)
	for _, p := range q.Phrases {
		if !strings.Contains(folded, p) {
			return false
		}
	}
	if len(q.Terms) == 0 {
		return len(q.Phrases) > 0
	}
	return CountMatchingTerms(q.Terms, folded) > 0
}
