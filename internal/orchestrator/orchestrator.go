// Package orchestrator implements ScrapingService: the bounded-parallelism
// scheduler that fans a single idea-validation job out to every registered
// SourceScraper, aggregates their partial-success results, and drives the
// cleaning/dedup/sentiment/summary post-processing pipeline.
//
// Fan-out uses a sync.WaitGroup plus a buffered-channel semaphore over the
// registered-scraper map, bounded by a context.Context deadline so a single
// slow or unresponsive source can never block the whole job.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/criztiandev/ideavalidator/internal/cleaner"
	"github.com/criztiandev/ideavalidator/internal/dedup"
	"github.com/criztiandev/ideavalidator/internal/keywords"
	"github.com/criztiandev/ideavalidator/internal/models"
	"github.com/criztiandev/ideavalidator/internal/scraper"
	"github.com/criztiandev/ideavalidator/internal/sentiment"
)

// ScrapingService is the orchestrator: Register scrapers, then call Scrape
// once per idea validation job.
type ScrapingService struct {
	cfg      Config
	analyzer *sentiment.Analyzer

	mu       sync.Mutex
	scrapers map[string]scraper.SourceScraper
	order    []string
}

// New constructs a ScrapingService with the given config and a fresh
// SentimentAnalyzer.
func New(cfg Config) *ScrapingService {
	return &ScrapingService{
		cfg:      cfg,
		analyzer: sentiment.NewAnalyzer(),
		scrapers: make(map[string]scraper.SourceScraper),
	}
}

// Register validates the scraper's configuration and adds it to the
// registry. A failed ValidateConfig logs and skips the scraper rather than
// erroring. Registering the same name twice is a no-op (idempotent).
func (s *ScrapingService) Register(sc scraper.SourceScraper) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := sc.Name()
	if _, exists := s.scrapers[name]; exists {
		return
	}
	if !sc.ValidateConfig() {
		log.Printf("[%s] rejected at registration: ValidateConfig returned false", name)
		return
	}
	s.scrapers[name] = sc
	s.order = append(s.order, name)
}

// ListSources returns every registered scraper's name, each exactly once,
// in registration order.
func (s *ScrapingService) ListSources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Close calls Close on every registered scraper, collecting but not
// stopping on individual errors, so one scraper's teardown failure never
// prevents the rest from releasing their resources.
func (s *ScrapingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, name := range s.order {
		if err := s.scrapers[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("close errors: %v", errs)
}

// taskOutcome is what each scraper's task sends back over the results
// channel: message-passing instead of shared mutable state.
type taskOutcome struct {
	name   string
	result models.ScrapingResult
}

// Scrape is the main entry point: derive keywords, fan out to every
// registered scraper under the semaphore and global deadline, aggregate,
// and run post-processing. Scrape never panics or returns an error; every
// failure mode becomes a field on the returned AggregatedResult.
func (s *ScrapingService) Scrape(parentCtx context.Context, ideaText string) models.AggregatedResult {
	start := time.Now()
	jobID := models.NewJobID()

	s.mu.Lock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	scrapers := make(map[string]scraper.SourceScraper, len(s.scrapers))
	for k, v := range s.scrapers {
		scrapers[k] = v
	}
	s.mu.Unlock()

	if len(names) == 0 {
		return models.AggregatedResult{
			Metadata: models.AggregatedMetadata{
				JobID:                 jobID,
				ProcessingTimeSeconds: time.Since(start).Seconds(),
				CompletedAt:           time.Now().UTC(),
				Error:                 "No scrapers registered",
			},
		}
	}

	kws := keywords.Extract(ideaText)

	ctx, cancel := context.WithTimeout(parentCtx, s.cfg.TotalTimeout)
	defer cancel()

	outcomes := s.fanOut(ctx, names, scrapers, kws, ideaText)

	result := s.aggregate(jobID, start, outcomes)
	// Post-processing, including detail-comment enrichment, runs on
	// already-collected data after the fan-out deadline has done its job,
	// so it gets parentCtx rather than the now-possibly-expired ctx.
	return s.postProcess(parentCtx, result, scrapers)
}

// fanOut runs one task per registered scraper under a semaphore of
// capacity cfg.MaxConcurrent, returning exactly one taskOutcome per name.
// Scrapers still running when ctx's deadline fires are recorded as failed
// with message "Timeout" instead of being waited on further.
func (s *ScrapingService) fanOut(ctx context.Context, names []string, scrapers map[string]scraper.SourceScraper, kws []models.Keyword, ideaText string) []taskOutcome {
	semaphore := make(chan struct{}, s.cfg.MaxConcurrent)
	resultsCh := make(chan taskOutcome, len(names))
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name string, sc scraper.SourceScraper) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				resultsCh <- taskOutcome{name: name, result: timeoutResult()}
				return
			}
			defer func() { <-semaphore }()

			resultsCh <- taskOutcome{name: name, result: safeScrape(ctx, sc, kws, ideaText)}
		}(name, scrapers[name])
	}

	go func() {
		wg.Wait()
	}()

	pending := make(map[string]bool, len(names))
	for _, n := range names {
		pending[n] = true
	}

	outcomes := make([]taskOutcome, 0, len(names))
collect:
	for len(pending) > 0 {
		select {
		case out := <-resultsCh:
			delete(pending, out.name)
			outcomes = append(outcomes, out)
		case <-ctx.Done():
			for name := range pending {
				outcomes = append(outcomes, taskOutcome{name: name, result: timeoutResult()})
			}
			break collect
		}
	}
	return outcomes
}

func timeoutResult() models.ScrapingResult {
	return models.ScrapingResult{Status: models.StatusFailed, ErrorMessage: "Timeout"}
}

// safeScrape calls a scraper's Scrape, converting a panic into a failed
// ScrapingResult instead of letting it escape the orchestrator and take
// down the whole job.
func safeScrape(ctx context.Context, sc scraper.SourceScraper, kws []models.Keyword, ideaText string) (res models.ScrapingResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.ScrapingResult{Status: models.StatusFailed, ErrorMessage: fmt.Sprintf("%v", r)}
		}
	}()
	return sc.Scrape(ctx, kws, ideaText)
}

// aggregate merges per-source outcomes into one AggregatedResult, deriving
// the status buckets and concatenating competitors/feedback in completion
// order. Callers must not assume any particular interleaving across
// sources.
func (s *ScrapingService) aggregate(jobID string, start time.Time, outcomes []taskOutcome) models.AggregatedResult {
	var competitors []models.CompetitorRecord
	var feedback []models.FeedbackRecord
	meta := models.AggregatedMetadata{JobID: jobID}

	for _, out := range outcomes {
		meta.SourcesAttempted++
		switch out.result.Status {
		case models.StatusSuccess:
			meta.SourcesSuccessful++
			meta.SuccessfulSources = append(meta.SuccessfulSources, out.name)
			competitors = append(competitors, out.result.Competitors...)
			feedback = append(feedback, out.result.Feedback...)
		case models.StatusPartialSuccess:
			meta.SourcesPartial++
			meta.PartialSources = append(meta.PartialSources, models.PartialSourceNote{Source: out.name, Message: out.result.ErrorMessage})
			competitors = append(competitors, out.result.Competitors...)
			feedback = append(feedback, out.result.Feedback...)
		default:
			meta.SourcesFailed++
			meta.FailedSources = append(meta.FailedSources, models.FailedSourceNote{Source: out.name, Error: out.result.ErrorMessage})
		}
	}

	meta.ProcessingTimeSeconds = time.Since(start).Seconds()
	meta.TotalCompetitorsFound = len(competitors)
	meta.TotalFeedbackFound = len(feedback)
	meta.CompletedAt = time.Now().UTC()

	return models.AggregatedResult{Competitors: competitors, Feedback: feedback, Metadata: meta}
}

// postProcess runs the pipeline stage that always executes, even on
// partial/total failure: cleaning, dedup, per-competitor sentiment
// enrichment (with the optional detail-comment hook), and the job-level
// sentiment summary. A panic here does not lose already-collected
// per-source data: the recover preserves result.Metadata while emptying
// the record lists and setting Metadata.Error.
func (s *ScrapingService) postProcess(ctx context.Context, result models.AggregatedResult, scrapers map[string]scraper.SourceScraper) (out models.AggregatedResult) {
	out = result
	defer func() {
		if r := recover(); r != nil {
			out = models.AggregatedResult{
				Metadata: result.Metadata,
			}
			out.Metadata.Error = fmt.Sprintf("post-processing error: %v", r)
		}
	}()

	competitors := cleaner.CleanCompetitors(result.Competitors)
	competitors = dedup.Competitors(competitors)

	feedback := cleaner.CleanFeedback(result.Feedback)
	feedback = dedup.Feedback(feedback)

	for i := range feedback {
		if feedback[i].Sentiment == "" {
			r := s.analyzer.Analyze(feedback[i].Text)
			feedback[i].Sentiment = r.Label
			feedback[i].SentimentScore = r.Score
		}
	}

	competitors = s.attachDetailComments(ctx, competitors, scrapers)
	for i := range competitors {
		competitors[i].Comments = s.analyzer.AttachToComments(competitors[i].Comments)
		competitors[i].SentimentSummary = sentiment.BuildCompetitorSummary(competitors[i].Comments)
	}

	out.Competitors = competitors
	out.Feedback = feedback
	out.SentimentSummary = sentiment.GetSentimentSummary(feedback)
	return out
}

// attachDetailComments calls the optional FetchDetailComments hook for up
// to cfg.MaxDetailCompetitors competitors, ranked by confidence score. It
// runs on already-collected data after the fan-out deadline phase, so it
// is not subject to TotalTimeout.
func (s *ScrapingService) attachDetailComments(ctx context.Context, competitors []models.CompetitorRecord, scrapers map[string]scraper.SourceScraper) []models.CompetitorRecord {
	if len(competitors) == 0 {
		return competitors
	}

	ranked := make([]int, len(competitors))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return competitors[ranked[i]].ConfidenceScore > competitors[ranked[j]].ConfidenceScore
	})

	enriched := 0
	for _, idx := range ranked {
		if enriched >= s.cfg.MaxDetailCompetitors {
			break
		}
		if len(competitors[idx].Comments) > 0 {
			continue
		}
		sc, ok := scrapers[competitors[idx].Source]
		if !ok {
			continue
		}
		fetcher, ok := sc.(scraper.DetailCommentFetcher)
		if !ok {
			continue
		}
		competitors[idx].Comments = fetcher.FetchDetailComments(ctx, competitors[idx])
		enriched++
	}
	return competitors
}
