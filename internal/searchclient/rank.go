package searchclient

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"in": true, "on": true, "to": true, "for": true, "by": true, "with": true,
	"at": true, "from": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "it": true, "its": true,
}

// rankAndFilter scores results by token overlap with query (title weighted
// higher than snippet, with a phrase-match bonus), normalizes by document
// length, and keeps the top half — mirroring the SearxNG rank-and-filter
// pass applied before results ever reach the agent loop.
func rankAndFilter(query string, results []searxResult) []searxResult {
	if len(results) == 0 || strings.TrimSpace(query) == "" {
		return results
	}

	query = strings.ToLower(strings.TrimSpace(query))
	tokens := tokenRe.FindAllString(query, -1)
	if len(tokens) == 0 {
		return results
	}

	var qTokens []string
	for _, t := range tokens {
		if !stopWords[t] && len(t) > 1 {
			qTokens = append(qTokens, t)
		}
	}
	if len(qTokens) == 0 {
		qTokens = tokens
	}

	type scored struct {
		item  searxResult
		score int
	}
	scoredList := make([]scored, 0, len(results))
	fullPhrase := strings.Join(qTokens, " ")

	for _, r := range results {
		title := strings.ToLower(r.Title)
		snippet := strings.ToLower(r.Content)

		titleHits, snippetHits := 0, 0
		for _, tok := range qTokens {
			if strings.Contains(title, tok) {
				titleHits++
			}
			if strings.Contains(snippet, tok) {
				snippetHits++
			}
		}

		phraseBonus := 0
		if strings.Contains(title, fullPhrase) {
			phraseBonus += 2
		} else if strings.Contains(snippet, fullPhrase) {
			phraseBonus++
		}

		score := titleHits*2 + snippetHits + phraseBonus
		textLen := float64(len(title) + len(snippet) + 10)
		normalized := float64(score) / math.Log(textLen)
		scoredList = append(scoredList, scored{item: r, score: int(normalized * 100)})
	}

	sort.SliceStable(scoredList, func(i, j int) bool {
		return scoredList[i].score > scoredList[j].score
	})

	cut := len(scoredList) / 2
	if cut < 1 {
		cut = 1
	}
	filtered := make([]searxResult, 0, cut)
	for i := 0; i < cut; i++ {
		filtered = append(filtered, scoredList[i].item)
	}
	return filtered
}
