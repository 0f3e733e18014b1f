package orchestrator

import "github.com/criztiandev/ideavalidator/internal/models"

// Coverage reports the fraction of attempted sources that returned
// something usable (success or partial_success), a convenience derived
// from AggregatedMetadata for callers building a dashboard or log line.
func Coverage(meta models.AggregatedMetadata) float64 {
	if meta.SourcesAttempted == 0 {
		return 0
	}
	usable := meta.SourcesSuccessful + meta.SourcesPartial
	return float64(usable) / float64(meta.SourcesAttempted)
}
