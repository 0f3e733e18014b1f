// Package scraper defines the SourceScraper contract every data-source
// implementation satisfies, plus the shared helpers (query generation, rate
// limiting) that keep individual scrapers small and uniform.
package scraper

import (
	"context"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// SourceScraper is implemented once per external data source (app store,
// discussion board, product directory, web search, social platform). The
// orchestrator holds a registry of these and drives them uniformly.
type SourceScraper interface {
	// Name is a stable, human-readable identifier used in metadata and logs.
	Name() string

	// ValidateConfig reports whether the scraper's configuration (API keys,
	// limits, language/country lists) is present and coherent. Called once
	// at registration; a false return excludes the scraper (the orchestrator
	// logs the rejection).
	ValidateConfig() bool

	// Scrape derives queries from keywords/ideaText, issues them against the
	// source, and returns a ScrapingResult. It must not panic for expected
	// failures (rate limits, 404s, empty results); those become a partial
	// or failed status instead. ctx carries the orchestrator's global
	// deadline; Scrape must check ctx at query boundaries.
	Scrape(ctx context.Context, keywords []models.Keyword, ideaText string) models.ScrapingResult

	// Close releases any held resources (HTTP clients, sessions). Called by
	// the orchestrator on every registered scraper during shutdown.
	Close() error
}

// DetailCommentFetcher is an optional capability a SourceScraper may
// implement: enrichment of one competitor's discussion with per-comment
// author/date/rating/helpfulness detail. The orchestrator type-asserts for
// this interface and calls it for up to 3 top competitors.
type DetailCommentFetcher interface {
	FetchDetailComments(ctx context.Context, competitor models.CompetitorRecord) []models.CommentRecord
}
