// Package store declares the persistence contract the orchestrator's
// surrounding system consumes. No concrete backend is implemented here;
// persistence is out of scope for this repository, but the interface is
// exercised by an in-memory fake (Memory) and this package's own tests.
package store

import (
	"context"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// JobStatus is the status string the surrounding system surfaces for a job,
// distinct from the per-source ScrapingStatus.
type JobStatus string

const (
	JobProcessing     JobStatus = "processing"
	JobPartialSuccess JobStatus = "partial_success"
	JobCompleted      JobStatus = "completed"
	JobFailed         JobStatus = "failed"
)

// Store is consumed, not implemented, by this repository: it is the
// persistence seam the orchestrator's caller uses after Scrape returns.
type Store interface {
	UpdateStatus(ctx context.Context, jobID string, status JobStatus, extra map[string]interface{}) error
	InsertCompetitors(ctx context.Context, jobID string, competitors []models.CompetitorRecord) error
	InsertFeedback(ctx context.Context, jobID string, feedback []models.FeedbackRecord) error
	InsertMetadata(ctx context.Context, jobID string, metadata models.AggregatedMetadata) error
}

// JobStatusFor applies the surrounding system's status-derivation rule:
// completed iff at least one source succeeded and none failed or was only
// partial, partial_success when mixed, failed when none succeeded.
func JobStatusFor(meta models.AggregatedMetadata) JobStatus {
	switch {
	case meta.SourcesSuccessful == 0:
		return JobFailed
	case meta.SourcesFailed > 0 || meta.SourcesPartial > 0:
		return JobPartialSuccess
	default:
		return JobCompleted
	}
}
