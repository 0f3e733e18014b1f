package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// fakeScraper is a minimal scraper.SourceScraper used across orchestrator
// tests to drive named, deterministic sources (FakeA/FakeB/FakeC/...).
type fakeScraper struct {
	name    string
	result  models.ScrapingResult
	panics  bool
	sleep   time.Duration
	details func(ctx context.Context, c models.CompetitorRecord) []models.CommentRecord
}

func (f *fakeScraper) Name() string         { return f.name }
func (f *fakeScraper) ValidateConfig() bool { return true }
func (f *fakeScraper) Close() error         { return nil }

func (f *fakeScraper) Scrape(ctx context.Context, kws []models.Keyword, ideaText string) models.ScrapingResult {
	if f.panics {
		panic("boom")
	}
	if f.sleep > 0 {
		// Deliberately ignores ctx to model an uncooperative scraper for
		// the global-timeout scenario: the orchestrator must not wait on it.
		time.Sleep(f.sleep)
	}
	return f.result
}

func (f *fakeScraper) FetchDetailComments(ctx context.Context, c models.CompetitorRecord) []models.CommentRecord {
	if f.details == nil {
		return nil
	}
	return f.details(ctx, c)
}

func testConfig() Config {
	c := DefaultConfig()
	c.TotalTimeout = 5 * time.Second
	return c
}

// A single healthy source returns its competitors and feedback, with
// metadata reflecting one success and no failures.
func TestScrapeSingleHealthySource(t *testing.T) {
	svc := New(testConfig())
	svc.Register(&fakeScraper{
		name: "FakeA",
		result: models.ScrapingResult{
			Status: models.StatusSuccess,
			Competitors: []models.CompetitorRecord{
				{Name: "Alpha", Source: "FakeA", SourceURL: "u1", ConfidenceScore: 0.8},
				{Name: "Beta", Source: "FakeA", SourceURL: "u2", ConfidenceScore: 0.7},
			},
			Feedback: []models.FeedbackRecord{
				{Text: "I love Alpha", Sentiment: models.SentimentPositive, SentimentScore: 0.6, Source: "FakeA", SourceURL: "u1"},
			},
		},
	})

	got := svc.Scrape(context.Background(), "an idea about alpha")

	if len(got.Competitors) != 2 {
		t.Fatalf("expected 2 competitors, got %d", len(got.Competitors))
	}
	if len(got.Feedback) != 1 {
		t.Fatalf("expected 1 feedback item, got %d", len(got.Feedback))
	}
	if got.Metadata.SourcesAttempted != 1 || got.Metadata.SourcesSuccessful != 1 || got.Metadata.SourcesFailed != 0 {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
	if len(got.Metadata.SuccessfulSources) != 1 || got.Metadata.SuccessfulSources[0] != "FakeA" {
		t.Fatalf("expected successful_sources=[FakeA], got %v", got.Metadata.SuccessfulSources)
	}
	if got.SentimentSummary.PositiveCount != 1 {
		t.Fatalf("expected 1 positive feedback item, got %d", got.SentimentSummary.PositiveCount)
	}
	if got.SentimentSummary.OverallSentiment != models.SentimentPositive {
		t.Fatalf("expected overall positive sentiment, got %s", got.SentimentSummary.OverallSentiment)
	}
}

// A mix of a successful source, a partial-success source, and a source
// that panics all land in their respective metadata buckets, and the
// panicking source never takes down the job.
func TestScrapePartialPlusCrash(t *testing.T) {
	svc := New(testConfig())
	svc.Register(&fakeScraper{
		name: "FakeA",
		result: models.ScrapingResult{
			Status: models.StatusSuccess,
			Competitors: []models.CompetitorRecord{
				{Name: "Alpha", Source: "FakeA", SourceURL: "u1", ConfidenceScore: 0.8},
				{Name: "Beta", Source: "FakeA", SourceURL: "u2", ConfidenceScore: 0.7},
			},
		},
	})
	svc.Register(&fakeScraper{
		name: "FakeB",
		result: models.ScrapingResult{
			Status:       models.StatusPartialSuccess,
			Competitors:  []models.CompetitorRecord{{Name: "Gamma", Source: "FakeB", SourceURL: "u3", ConfidenceScore: 0.6}},
			ErrorMessage: "rate limited on 1 query",
		},
	})
	svc.Register(&fakeScraper{name: "FakeC", panics: true})

	got := svc.Scrape(context.Background(), "an idea")

	if got.Metadata.SourcesSuccessful != 1 || got.Metadata.SourcesPartial != 1 || got.Metadata.SourcesFailed != 1 {
		t.Fatalf("unexpected bucket counts: %+v", got.Metadata)
	}
	foundFailed := false
	for _, fs := range got.Metadata.FailedSources {
		if fs.Source == "FakeC" && fs.Error == "boom" {
			foundFailed = true
		}
	}
	if !foundFailed {
		t.Fatalf("expected FakeC/boom in failed_sources, got %v", got.Metadata.FailedSources)
	}
	foundPartial := false
	for _, ps := range got.Metadata.PartialSources {
		if ps.Source == "FakeB" && ps.Message == "rate limited on 1 query" {
			foundPartial = true
		}
	}
	if !foundPartial {
		t.Fatalf("expected FakeB partial note, got %v", got.Metadata.PartialSources)
	}
	if len(got.Competitors) != 3 {
		t.Fatalf("expected 3 competitors (2+1+0), got %d", len(got.Competitors))
	}
}

// Duplicate competitors (same name, different case/whitespace) collapse to
// one record, and HTML/control characters are cleaned out of its fields.
func TestScrapeDedupAndCleaning(t *testing.T) {
	svc := New(testConfig())
	svc.Register(&fakeScraper{
		name: "FakeA",
		result: models.ScrapingResult{
			Status: models.StatusSuccess,
			Competitors: []models.CompetitorRecord{
				{Name: "  Alpha  ", Description: "<b>Great</b>\r\nTool", Source: "FakeA", SourceURL: "u1", ConfidenceScore: 0.8},
				{Name: "alpha", Description: "<i>Alt</i> tool", Source: "FakeA", SourceURL: "u2", ConfidenceScore: 0.75},
			},
		},
	})

	got := svc.Scrape(context.Background(), "an idea")

	if len(got.Competitors) != 1 {
		t.Fatalf("expected dedup to 1 competitor, got %d", len(got.Competitors))
	}
	c := got.Competitors[0]
	if c.Name != "Alpha" && c.Name != "alpha" {
		t.Fatalf("expected first-wins name, got %q", c.Name)
	}
	if c.ConfidenceScore != 0.8 {
		t.Fatalf("expected confidence unchanged at 0.8, got %f", c.ConfidenceScore)
	}
	if strings.Contains(c.Description, "<b>") || strings.Contains(c.Description, "\r") {
		t.Fatalf("expected cleaned description, got %q", c.Description)
	}
}

// Negative comments are sorted ahead of positive ones and categorized into
// the right pain-point buckets.
func TestScrapePainPointCategorization(t *testing.T) {
	svc := New(testConfig())
	svc.Register(&fakeScraper{
		name: "FakeA",
		result: models.ScrapingResult{
			Status: models.StatusSuccess,
			Competitors: []models.CompetitorRecord{
				{
					Name: "Alpha", Source: "FakeA", SourceURL: "u1", ConfidenceScore: 0.8,
					Comments: []models.CommentRecord{
						{Text: "App keeps crashing when I open it", Sentiment: models.SentimentNegative, Position: 1},
						{Text: "Too expensive for what it offers", Sentiment: models.SentimentNegative, Position: 2},
						{Text: "Confusing navigation", Sentiment: models.SentimentNegative, Position: 3},
						{Text: "Love the new feature", Sentiment: models.SentimentPositive, Position: 4},
					},
				},
			},
		},
	})

	got := svc.Scrape(context.Background(), "an idea")
	if len(got.Competitors) != 1 {
		t.Fatalf("expected 1 competitor, got %d", len(got.Competitors))
	}
	summary := got.Competitors[0].SentimentSummary
	for _, cat := range []string{"performance", "pricing", "usability"} {
		if len(summary.PainPointCategories[cat]) == 0 {
			t.Fatalf("expected non-empty %s category, got %v", cat, summary.PainPointCategories)
		}
	}
	if len(summary.PositiveFeedback) == 0 {
		t.Fatal("expected positive feedback to include the fourth comment")
	}
	comments := got.Competitors[0].Comments
	for i := 0; i < 3; i++ {
		if comments[i].Sentiment != models.SentimentNegative {
			t.Fatalf("expected negatives first, comment %d was %s", i, comments[i].Sentiment)
		}
	}
}

// An uncooperative scraper that outlasts the global deadline is marked
// failed with a timeout instead of blocking the whole job.
func TestScrapeGlobalTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalTimeout = 200 * time.Millisecond
	svc := New(cfg)
	svc.Register(&fakeScraper{name: "SlowSource", sleep: 10 * time.Second, result: models.ScrapingResult{Status: models.StatusSuccess}})

	start := time.Now()
	got := svc.Scrape(context.Background(), "an idea")
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Fatalf("expected Scrape to return promptly on timeout, took %v", elapsed)
	}
	if got.Metadata.SourcesFailed != 1 {
		t.Fatalf("expected 1 failed source, got %d", got.Metadata.SourcesFailed)
	}
	found := false
	for _, fs := range got.Metadata.FailedSources {
		if fs.Error == "Timeout" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Timeout failed source, got %v", got.Metadata.FailedSources)
	}
	if len(got.Competitors) != 0 {
		t.Fatalf("expected zero competitors on timeout, got %d", len(got.Competitors))
	}
}

func TestScrapeNoScrapersRegistered(t *testing.T) {
	svc := New(testConfig())
	got := svc.Scrape(context.Background(), "an idea")
	if got.Metadata.Error != "No scrapers registered" {
		t.Fatalf("expected no-scrapers error, got %q", got.Metadata.Error)
	}
	if len(got.Competitors) != 0 || len(got.Feedback) != 0 {
		t.Fatalf("expected empty aggregate, got %+v", got)
	}
}

func TestListSourcesUniqueInRegistrationOrder(t *testing.T) {
	svc := New(testConfig())
	svc.Register(&fakeScraper{name: "A"})
	svc.Register(&fakeScraper{name: "B"})
	svc.Register(&fakeScraper{name: "A"}) // duplicate name: idempotent

	names := svc.ListSources()
	if len(names) != 2 {
		t.Fatalf("expected 2 unique names, got %v", names)
	}
	if names[0] != "A" || names[1] != "B" {
		t.Fatalf("expected registration order [A B], got %v", names)
	}
}

func TestRegisterSkipsInvalidConfig(t *testing.T) {
	svc := New(testConfig())
	svc.Register(&invalidScraper{name: "Bad"})
	if len(svc.ListSources()) != 0 {
		t.Fatalf("expected invalid scraper to be rejected, got %v", svc.ListSources())
	}
}

type invalidScraper struct{ name string }

func (i *invalidScraper) Name() string         { return i.name }
func (i *invalidScraper) ValidateConfig() bool { return false }
func (i *invalidScraper) Close() error         { return nil }
func (i *invalidScraper) Scrape(ctx context.Context, kws []models.Keyword, ideaText string) models.ScrapingResult {
	return models.ScrapingResult{Status: models.StatusFailed, ErrorMessage: "should never be called"}
}

func TestCoverage(t *testing.T) {
	meta := models.AggregatedMetadata{SourcesAttempted: 4, SourcesSuccessful: 2, SourcesPartial: 1, SourcesFailed: 1}
	if got := Coverage(meta); fmt.Sprintf("%.2f", got) != "0.75" {
		t.Fatalf("expected coverage 0.75, got %f", got)
	}
}
