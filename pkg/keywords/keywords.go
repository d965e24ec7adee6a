// Package keywords extracts keyword tags from free text: word-boundary
// tokenization, case normalization, stopword filtering and optional
// snowball stemming.
package keywords

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Config controls extraction behavior.
type Config struct {
	// Language selects the stopword and stemming locale.
	Language string
	// Stemming reduces keywords to their word stem when enabled.
	Stemming bool
	// MinLength drops tokens shorter than this many runes.
	MinLength int
}

func DefaultConfig() Config {
	return Config{
		Language:  "english",
		Stemming:  false,
		MinLength: 2,
	}
}

type Extractor struct {
	cfg Config
}

func NewExtractor(cfg Config) *Extractor {
	if cfg.Language == "" {
		cfg.Language = "english"
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = 2
	}
	return &Extractor{cfg: cfg}
}

// Extract returns the de-duplicated lowercase keywords found across the
// given texts, in first-seen order.
func (e *Extractor) Extract(texts ...string) []string {
	seen := make(map[string]bool)
	var keywords []string

	for _, text := range texts {
		for _, token := range Tokenize(text) {
			if len([]rune(token)) < e.cfg.MinLength || isNumeric(token) {
				continue
			}
			if IsStopword(token) {
				continue
			}
			if e.cfg.Stemming {
				if stemmed, err := snowball.Stem(token, e.cfg.Language, false); err == nil && stemmed != "" {
					token = stemmed
				}
			}
			if seen[token] {
				continue
			}
			seen[token] = true
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// Tokenize splits text into lowercased runs of letters and digits;
// everything else is a boundary.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Common English stopwords that carry no tagging value.
var englishStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"has": true, "he": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "that": true, "the": true,
	"to": true, "was": true, "were": true, "will": true, "with": true,
	"i": true, "me": true, "my": true, "we": true, "our": true,
	"you": true, "your": true, "they": true, "their": true, "this": true,
	"but": true, "or": true, "not": true, "no": true, "so": true,
	"if": true, "do": true, "does": true, "did": true, "have": true,
	"had": true, "been": true, "being": true, "which": true, "who": true,
	"what": true, "when": true, "where": true, "how": true, "why": true,
	"all": true, "each": true, "some": true, "any": true, "most": true,
	"other": true, "such": true, "only": true, "own": true, "same": true,
	"than": true, "too": true, "very": true, "can": true, "just": true,
	"should": true, "now": true, "also": true, "more": true,
}

// IsStopword returns true if the token is a common English stopword.
func IsStopword(token string) bool {
	return englishStopwords[strings.ToLower(token)]
}

func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return token != ""
}
