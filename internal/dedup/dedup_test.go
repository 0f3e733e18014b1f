package dedup

import (
	"strings"
	"testing"

	"github.com/criztiandev/ideavalidator/internal/models"
)

func TestCompetitorsFirstWinsAndTrimsShortNames(t *testing.T) {
	in := []models.CompetitorRecord{
		{Name: "  Alpha  ", ConfidenceScore: 0.9},
		{Name: "alpha", ConfidenceScore: 0.1},
		{Name: "Beta", ConfidenceScore: 0.5},
		{Name: "X", ConfidenceScore: 0.5},
	}
	out := Competitors(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d: %+v", len(out), out)
	}
	if out[0].Name != "  Alpha  " || out[0].ConfidenceScore != 0.9 {
		t.Fatalf("expected first-occurrence Alpha to win, got %+v", out[0])
	}
	if out[1].Name != "Beta" {
		t.Fatalf("expected Beta as second survivor, got %+v", out[1])
	}
}

func TestCompetitorsIdempotent(t *testing.T) {
	in := []models.CompetitorRecord{
		{Name: "Alpha"}, {Name: "alpha"}, {Name: "Beta"},
	}
	once := Competitors(in)
	twice := Competitors(once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: once=%d twice=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Name != twice[i].Name {
			t.Fatalf("dedup not idempotent at %d: %q vs %q", i, once[i].Name, twice[i].Name)
		}
	}
}

func TestFeedbackFirstWinsAndDropsShortText(t *testing.T) {
	sharedPrefix := "This product is absolutely wonderful, truly great piece of software engineering"
	in := []models.FeedbackRecord{
		{Text: sharedPrefix + " and I use it daily", Source: "A"},
		{Text: strings.ToUpper(sharedPrefix) + " but then I stopped", Source: "B"},
		{Text: "Short", Source: "C"},
		{Text: "A genuinely distinct piece of feedback text here", Source: "D"},
	}
	out := Feedback(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d: %+v", len(out), out)
	}
	if out[0].Source != "A" {
		t.Fatalf("expected first occurrence to win, got source %q", out[0].Source)
	}
}

func TestFeedbackIdempotent(t *testing.T) {
	in := []models.FeedbackRecord{
		{Text: "A genuinely distinct piece of feedback text here"},
		{Text: "A genuinely distinct piece of feedback TEXT here but longer"},
	}
	once := Feedback(in)
	twice := Feedback(once)
	if len(once) != len(twice) {
		t.Fatalf("feedback dedup not idempotent: once=%d twice=%d", len(once), len(twice))
	}
}
