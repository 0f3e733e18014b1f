package scraper

import (
	"strings"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// BuildQueries derives a bounded, ordered set of search queries from
// keywords and idea text: combine top keywords in pairs, append domain
// suffixes, deduplicate preserving order, cap to maxQueries.
func BuildQueries(keywords []models.Keyword, ideaText string, suffixes []string, maxQueries int) []string {
	var candidates []string

	top := keywords
	if len(top) > 6 {
		top = top[:6]
	}

	for i := 0; i < len(top); i++ {
		candidates = append(candidates, string(top[i]))
		for j := i + 1; j < len(top); j++ {
			candidates = append(candidates, string(top[i])+" "+string(top[j]))
		}
	}

	for _, kw := range top {
		for _, suf := range suffixes {
			candidates = append(candidates, string(kw)+" "+suf)
		}
	}

	if len(candidates) == 0 && strings.TrimSpace(ideaText) != "" {
		candidates = append(candidates, strings.TrimSpace(ideaText))
	}

	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) >= maxQueries {
			break
		}
	}
	return out
}
