package orchestrator

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator's tunables as a plain struct with
// functional defaults, rather than a config-loading library.
type Config struct {
	// MaxConcurrent bounds how many scrapers run at once (default 5).
	MaxConcurrent int
	// TotalTimeout is the single global deadline applied from the moment
	// Scrape is called (default 300s).
	TotalTimeout time.Duration
	// MaxDetailCompetitors bounds how many top competitors get the
	// optional FetchDetailComments enrichment (default 3).
	MaxDetailCompetitors int
}

// DefaultConfig returns the baseline tunables, each overridable by an
// environment variable read ad hoc with os.Getenv (no config-loading
// library): MAX_CONCURRENT_SCRAPERS for MaxConcurrent and
// TOTAL_TIMEOUT_SECONDS for TotalTimeout. An unset or unparsable value
// falls back to the hardcoded default.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:        intFromEnv("MAX_CONCURRENT_SCRAPERS", 5),
		TotalTimeout:         time.Duration(intFromEnv("TOTAL_TIMEOUT_SECONDS", 300)) * time.Second,
		MaxDetailCompetitors: 3,
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
