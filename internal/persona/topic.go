package persona

import (
	"regexp"
	"strings"
)

var topicTokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// topicStopwords mirrors the minimal stopword list used throughout the
// search-query cleanup path; personas reuse the same small, hand-picked
// set rather than a full NLP stopword corpus.
var topicStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "so": true, "as": true, "of": true, "on": true,
	"in": true, "to": true, "for": true, "by": true, "with": true, "at": true,
	"from": true, "is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "it": true, "its": true, "this": true, "that": true,
	"these": true, "those": true, "what": true, "which": true, "who": true,
	"whom": true, "whose": true, "about": true, "into": true, "over": true,
	"under": true, "between": true, "through": true, "during": true, "before": true,
	"after": true, "up": true, "down": true, "out": true, "off": true, "again": true,
	"further": true, "more": true, "most": true, "some": true, "such": true,
	"no": true, "nor": true, "not": true, "only": true, "own": true, "same": true,
	"than": true, "too": true, "very": true, "can": true, "could": true,
	"should": true, "would": true, "may": true, "might": true, "will": true,
	"shall": true, "do": true, "does": true, "did": true, "done": true,
	"have": true, "has": true, "had": true, "having": true, "also": true,
	"we": true, "our": true, "you": true, "your": true, "they": true, "their": true,
	"he": true, "she": true, "i": true, "me": true, "my": true, "mine": true,
	"here": true, "there": true, "when": true, "where": true, "why": true, "how": true,
}

// extractMainTopic removes the fixed stop-word list and keeps up to three
// content words, preserving their order of first appearance.
func extractMainTopic(query string) []string {
	tokens := topicTokenRe.FindAllString(strings.ToLower(query), -1)
	out := make([]string, 0, 3)
	for _, tok := range tokens {
		if topicStopwords[tok] {
			continue
		}
		out = append(out, tok)
		if len(out) == 3 {
			break
		}
	}
	return out
}
