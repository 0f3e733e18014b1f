package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewJobID returns a fresh opaque job identifier.
func NewJobID() string {
	return uuid.NewString()
}

// CompetitorDedupKey returns the key used by the deduplicator for a
// competitor record: lowercased, trimmed name.
func CompetitorDedupKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FeedbackDedupKey returns the key used by the deduplicator for a feedback
// record: the first 50 lowercased characters of its text.
func FeedbackDedupKey(text string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	runes := []rune(key)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}

// CommentSnippetKey returns a short debug-friendly identifier for a comment,
// used in log lines: "<source>#<position>".
func CommentSnippetKey(source string, position int) string {
	return fmt.Sprintf("%s#%d", source, position)
}
