// Package dedup implements the orchestrator's insertion-stable
// deduplication pass over competitors and feedback.
package dedup

import (
	"github.com/criztiandev/ideavalidator/internal/models"
)

// Competitors drops every competitor whose lowercased, trimmed name has
// already been seen, and any competitor whose name is shorter than 2
// characters after trimming. First occurrence wins; order is preserved.
func Competitors(records []models.CompetitorRecord) []models.CompetitorRecord {
	seen := make(map[string]bool, len(records))
	out := make([]models.CompetitorRecord, 0, len(records))
	for _, c := range records {
		key := models.CompetitorDedupKey(c.Name)
		if len([]rune(key)) < 2 {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Feedback drops every feedback item whose first-50-lowercased-chars key has
// already been seen, and any item whose text is shorter than 10 characters.
// First occurrence wins; order is preserved.
func Feedback(records []models.FeedbackRecord) []models.FeedbackRecord {
	seen := make(map[string]bool, len(records))
	out := make([]models.FeedbackRecord, 0, len(records))
	for _, f := range records {
		key := models.FeedbackDedupKey(f.Text)
		if len([]rune(key)) < 10 {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
