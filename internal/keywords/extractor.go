// Package keywords implements KeywordExtractor: a deterministic, pure
// transform from free-form idea text to an ordered list of search
// keywords. Ordering is significant: index 0 is the highest-priority term.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// stopWords are common English words that never make useful search terms
// on their own, kept as a flat set since the vocabulary is small and fixed.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"for": true, "with": true, "that": true, "this": true, "these": true,
	"those": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "to": true, "of": true,
	"in": true, "on": true, "at": true, "by": true, "from": true, "as": true,
	"it": true, "its": true, "i": true, "my": true, "we": true, "our": true,
	"would": true, "could": true, "should": true, "want": true, "like": true,
	"app": true, "idea": true, "build": true, "building": true, "make": true,
	"making": true, "create": true, "creating": true, "platform": true,
}

var nonWord = regexp.MustCompile(`[^a-z0-9\s-]+`)

// Extract tokenizes idea text into lowercased keywords, drops stop words and
// duplicates (first occurrence wins, preserving priority order), and ranks
// multi-word bigrams ahead of single tokens since they tend to carry more of
// the idea's specific intent.
func Extract(ideaText string) []models.Keyword {
	lower := strings.ToLower(ideaText)
	cleaned := nonWord.ReplaceAllString(lower, " ")
	fields := strings.Fields(cleaned)

	var tokens []string
	for _, f := range fields {
		if stopWords[f] || len(f) < 3 {
			continue
		}
		tokens = append(tokens, f)
	}
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var bigrams []string
	for i := 0; i < len(tokens)-1; i++ {
		bg := tokens[i] + " " + tokens[i+1]
		if !seen[bg] {
			seen[bg] = true
			bigrams = append(bigrams, bg)
		}
	}

	var singles []string
	counts := make(map[string]int)
	for _, t := range tokens {
		counts[t]++
	}
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		singles = append(singles, t)
	}
	sort.SliceStable(singles, func(i, j int) bool {
		return counts[singles[i]] > counts[singles[j]]
	})

	ordered := append(bigrams, singles...)
	out := make([]models.Keyword, len(ordered))
	for i, k := range ordered {
		out[i] = models.Keyword(k)
	}
	return out
}
