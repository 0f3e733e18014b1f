package store

import (
	"context"
	"sync"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// Memory is an in-memory Store fake for tests: it records every call
// keyed by job ID rather than talking to a real backend.
type Memory struct {
	mu          sync.Mutex
	statuses    map[string]JobStatus
	competitors map[string][]models.CompetitorRecord
	feedback    map[string][]models.FeedbackRecord
	metadata    map[string]models.AggregatedMetadata
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		statuses:    make(map[string]JobStatus),
		competitors: make(map[string][]models.CompetitorRecord),
		feedback:    make(map[string][]models.FeedbackRecord),
		metadata:    make(map[string]models.AggregatedMetadata),
	}
}

func (m *Memory) UpdateStatus(ctx context.Context, jobID string, status JobStatus, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[jobID] = status
	return nil
}

func (m *Memory) InsertCompetitors(ctx context.Context, jobID string, competitors []models.CompetitorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.competitors[jobID] = append(m.competitors[jobID], competitors...)
	return nil
}

func (m *Memory) InsertFeedback(ctx context.Context, jobID string, feedback []models.FeedbackRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback[jobID] = append(m.feedback[jobID], feedback...)
	return nil
}

func (m *Memory) InsertMetadata(ctx context.Context, jobID string, metadata models.AggregatedMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[jobID] = metadata
	return nil
}

// Status returns the last status recorded for jobID, for test assertions.
func (m *Memory) Status(jobID string) (JobStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[jobID]
	return s, ok
}

// Competitors returns the competitors recorded for jobID, for test
// assertions.
func (m *Memory) Competitors(jobID string) []models.CompetitorRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.competitors[jobID]
}
