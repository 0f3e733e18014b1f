package appdirectory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/criztiandev/ideavalidator/internal/models"
)

func fastConfig() Config {
	c := DefaultConfig()
	c.SleepMin = 0
	c.SleepMax = time.Millisecond
	c.MaxQueries = 2
	return c
}

func TestScrapeHeuristicFallbackSuccess(t *testing.T) {
	fetch := func(ctx context.Context, query string) (string, error) {
		return "Alpha Tracker\nUsers say the onboarding is smooth and delightful\nSupport replies within a day", nil
	}
	s := New("AppDir", fastConfig(), fetch)
	if !s.ValidateConfig() {
		t.Fatal("expected valid config without an API key")
	}
	result := s.Scrape(context.Background(), []models.Keyword{"alpha"}, "idea")
	if result.Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s: %s", result.Status, result.ErrorMessage)
	}
	if len(result.Competitors) == 0 {
		t.Fatal("expected at least one competitor from heuristic extraction")
	}
}

func TestScrapeFailedWithoutFetchFunc(t *testing.T) {
	s := New("AppDir", fastConfig(), nil)
	if s.ValidateConfig() {
		t.Fatal("expected invalid config with nil fetch func")
	}
}

func TestScrapePartialOnMixedFetchFailures(t *testing.T) {
	call := 0
	fetch := func(ctx context.Context, query string) (string, error) {
		call++
		if call == 1 {
			return "", fmt.Errorf("timeout")
		}
		return "Beta App\nGreat experience overall honestly", nil
	}
	s := New("AppDir", fastConfig(), fetch)
	result := s.Scrape(context.Background(), []models.Keyword{"alpha", "beta"}, "idea")
	if result.Status != models.StatusPartialSuccess {
		t.Fatalf("expected partial_success, got %s", result.Status)
	}
}

func TestFetchDetailCommentsUsesHeuristic(t *testing.T) {
	fetch := func(ctx context.Context, query string) (string, error) {
		return "Alpha Tracker\nLoved the redesign, much faster now", nil
	}
	s := New("AppDir", fastConfig(), fetch)
	comments := s.FetchDetailComments(context.Background(), models.CompetitorRecord{Name: "Alpha Tracker"})
	if len(comments) == 0 {
		t.Fatal("expected at least one comment")
	}
	if comments[0].Position != 1 {
		t.Fatalf("expected 1-based position, got %d", comments[0].Position)
	}
}
