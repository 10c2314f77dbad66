package analysis

import (
	"regexp"
	"strings"
)

// WordSet is a set of normalized tokens.
type WordSet map[string]struct{}

var nonWord = regexp.MustCompile(`[^\w\s]`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "for": {}, "with": {},
	"from": {}, "into": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"are": {}, "was": {}, "were": {}, "been": {}, "being": {}, "have": {},
	"has": {}, "had": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "can": {}, "not": {}, "you": {}, "your": {},
	"its": {}, "our": {},
}

// Tokenize lowercases text and returns its words longer than two
// characters, minus stop words.
func Tokenize(text string) WordSet {
	set := WordSet{}
	if text == "" {
		return set
	}

	clean := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	for _, w := range strings.Fields(clean) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether w is filtered out by Tokenize.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
