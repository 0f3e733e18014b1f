// Package appdirectory implements a reference SourceScraper modeled on an
// app-store/product-directory data source. It fetches raw listing text per
// query and shapes it into competitor/feedback records either via an
// OpenAI JSON-mode chat completion or, when no API key is configured, a
// local heuristic extractor, so the scraper degrades gracefully instead of
// failing ValidateConfig outright.
package appdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/criztiandev/ideavalidator/internal/models"
	"github.com/criztiandev/ideavalidator/internal/scraper"
)

// FetchFunc retrieves raw listing text for one query against the
// directory. Scraper tests inject a fake; production wiring plugs in a real
// directory client.
type FetchFunc func(ctx context.Context, query string) (string, error)

// Config holds the scraper's tunables.
type Config struct {
	MaxQueries         int
	MaxReviewsPerEntity int
	QuerySuffixes      []string
	SleepMin           time.Duration
	SleepMax           time.Duration
	OpenAIAPIKey       string
	Model              string
}

// DefaultConfig bakes in sane defaults, including the model for the
// OpenAI-backed extraction path (its temperature is fixed in llmExtract,
// not configurable). A missing API key doesn't fail
// ValidateConfig; it just disables the LLM extraction path in favor of the
// heuristic fallback.
func DefaultConfig() Config {
	return Config{
		MaxQueries:          3,
		MaxReviewsPerEntity: 5,
		QuerySuffixes:       []string{"app", "alternative"},
		SleepMin:            1 * time.Second,
		SleepMax:            2 * time.Second,
		Model:               "gpt-4o-mini",
	}
}

// extraction is the structured shape an LLM call (or the heuristic
// fallback) must produce for one query's fetched text.
type extraction struct {
	Competitors []extractedCompetitor `json:"competitors"`
	Feedback    []extractedFeedback   `json:"feedback"`
}

type extractedCompetitor struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Website          string `json:"website"`
	IsFree           bool   `json:"is_free"`
	HasInAppPurchase bool   `json:"has_in_app_purchase"`
	PriceDisplay     string `json:"price_display"`
	EstimatedUsers   string `json:"estimated_users"`
	ReviewCount      int    `json:"review_count"`
	AverageRating    float64 `json:"average_rating"`
}

type extractedFeedback struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
}

// Scraper is the app-directory SourceScraper implementation.
type Scraper struct {
	name   string
	cfg    Config
	fetch  FetchFunc
	client *openai.Client
	sleeper scraper.Sleeper
}

// New constructs a Scraper. fetch must not be nil; it is how page text for
// each query reaches the scraper (real directory client in production, a
// fake in tests).
func New(name string, cfg Config, fetch FetchFunc) *Scraper {
	s := &Scraper{name: name, cfg: cfg, fetch: fetch, sleeper: scraper.NewSleeper(cfg.SleepMin, cfg.SleepMax)}
	if cfg.OpenAIAPIKey != "" {
		s.client = openai.NewClient(cfg.OpenAIAPIKey)
	}
	return s
}

// Name returns the stable source identifier.
func (s *Scraper) Name() string { return s.name }

// ValidateConfig requires a fetch function and coherent limits; the OpenAI
// key is optional since the heuristic extractor covers its absence.
func (s *Scraper) ValidateConfig() bool {
	if s.fetch == nil {
		return false
	}
	if s.cfg.MaxQueries <= 0 || s.cfg.MaxReviewsPerEntity <= 0 {
		return false
	}
	return s.cfg.SleepMax >= s.cfg.SleepMin
}

// Scrape issues one fetch per derived query, sequentially, with a
// randomized delay between them, shaping each query's text into records.
func (s *Scraper) Scrape(ctx context.Context, keywords []models.Keyword, ideaText string) models.ScrapingResult {
	queries := scraper.BuildQueries(keywords, ideaText, s.cfg.QuerySuffixes, s.cfg.MaxQueries)
	if len(queries) == 0 {
		return models.ScrapingResult{Status: models.StatusFailed, ErrorMessage: "no queries derived"}
	}

	var competitors []models.CompetitorRecord
	var feedback []models.FeedbackRecord
	succeeded, failed := 0, 0

	for i, q := range queries {
		if ctx.Err() != nil {
			failed += len(queries) - i
			break
		}

		text, err := s.fetch(ctx, q)
		if err != nil {
			log.Printf("[%s] fetch for %q failed: %v", s.name, q, err)
			failed++
			continue
		}

		ex, err := s.extract(ctx, text, q)
		if err != nil {
			log.Printf("[%s] extraction for %q failed: %v", s.name, q, err)
			failed++
			continue
		}
		succeeded++

		for _, ec := range ex.Competitors {
			competitors = append(competitors, models.CompetitorRecord{
				Name:            ec.Name,
				Description:     ec.Description,
				Website:         ec.Website,
				EstimatedUsers:  ec.EstimatedUsers,
				PricingModel:    scraper.InferPricingModel(ec.IsFree, ec.HasInAppPurchase, ec.PriceDisplay),
				Source:          s.name,
				SourceURL:       ec.Website,
				ConfidenceScore: scraper.StartingConfidence(0.85, ec.Website != "", ec.Description != ""),
				ReviewCount:     ec.ReviewCount,
				AverageRating:   ec.AverageRating,
			})
		}
		for j, ef := range ex.Feedback {
			if j >= s.cfg.MaxReviewsPerEntity {
				break
			}
			feedback = append(feedback, models.FeedbackRecord{
				Text:       ef.Text,
				Source:     s.name,
				SourceURL:  q,
				AuthorInfo: map[string]string{"author": ef.Author, "rating": strconv.Itoa(ef.Rating)},
			})
		}

		if i < len(queries)-1 {
			if err := s.sleeper.Wait(ctx); err != nil {
				failed += len(queries) - i - 1
				break
			}
		}
	}

	meta := map[string]interface{}{
		"queries_tried":  queries,
		"failed_queries": failed,
		"api_calls_made": succeeded + failed,
		"llm_backed":     s.client != nil,
	}

	switch {
	case succeeded == 0:
		return models.ScrapingResult{Status: models.StatusFailed, ErrorMessage: fmt.Sprintf("all %d queries failed", len(queries)), Metadata: meta}
	case failed > 0:
		return models.ScrapingResult{Status: models.StatusPartialSuccess, Competitors: competitors, Feedback: feedback, ErrorMessage: fmt.Sprintf("%d of %d queries failed", failed, len(queries)), Metadata: meta}
	default:
		return models.ScrapingResult{Status: models.StatusSuccess, Competitors: competitors, Feedback: feedback, Metadata: meta}
	}
}

// extract shapes one query's fetched text into competitor/feedback
// candidates, preferring the OpenAI JSON-mode path when a client is
// configured and falling back to the heuristic extractor otherwise.
func (s *Scraper) extract(ctx context.Context, text, sourceURL string) (extraction, error) {
	if s.client == nil {
		return heuristicExtract(text), nil
	}
	return s.llmExtract(ctx, text)
}

func (s *Scraper) llmExtract(ctx context.Context, text string) (extraction, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: 0.1,
		MaxTokens:   1500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return extraction{}, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return extraction{}, fmt.Errorf("no response choices from openai")
	}

	cleaned := strings.TrimSpace(resp.Choices[0].Message.Content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var ex extraction
	if err := json.Unmarshal([]byte(cleaned), &ex); err != nil {
		return extraction{}, fmt.Errorf("parse openai response: %w", err)
	}
	return ex, nil
}

const extractionSystemPrompt = `You extract competitor products and user feedback snippets about them from raw product-directory listing text. Respond with strict JSON: {"competitors":[{"name":"","description":"","website":"","is_free":false,"has_in_app_purchase":false,"price_display":"","estimated_users":"","review_count":0,"average_rating":0}],"feedback":[{"text":"","author":"","rating":0}]}. Only include entries explicitly supported by the text.`

// FetchDetailComments satisfies scraper.DetailCommentFetcher: re-fetches
// listing text scoped to one competitor and extracts its review snippets.
func (s *Scraper) FetchDetailComments(ctx context.Context, competitor models.CompetitorRecord) []models.CommentRecord {
	text, err := s.fetch(ctx, competitor.Name+" reviews")
	if err != nil {
		log.Printf("[%s] detail fetch for %q failed: %v", s.name, competitor.Name, err)
		return nil
	}
	ex, err := s.extract(ctx, text, competitor.Website)
	if err != nil {
		log.Printf("[%s] detail extraction for %q failed: %v", s.name, competitor.Name, err)
		return nil
	}
	out := make([]models.CommentRecord, 0, len(ex.Feedback))
	for i, ef := range ex.Feedback {
		if i >= s.cfg.MaxReviewsPerEntity {
			break
		}
		rating := ef.Rating
		out = append(out, models.CommentRecord{
			Text:       ef.Text,
			Author:     ef.Author,
			Rating:     &rating,
			Position:   i + 1,
			Confidence: 0.7,
		})
	}
	return out
}

// Close is a no-op: the openai.Client holds no resources requiring teardown
// beyond its internal *http.Client, which the standard library reclaims.
func (s *Scraper) Close() error { return nil }

// heuristicExtract is the no-API-key fallback: it treats the first non-empty
// line as a competitor name and every later line of at least 10 characters
// as a feedback snippet, which is crude but keeps the scraper functional
// without an LLM.
func heuristicExtract(text string) extraction {
	var ex extraction
	lines := strings.Split(text, "\n")
	var name string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name == "" {
			name = line
			ex.Competitors = append(ex.Competitors, extractedCompetitor{Name: name})
			continue
		}
		if len(line) >= 10 {
			ex.Feedback = append(ex.Feedback, extractedFeedback{Text: line})
		}
	}
	return ex
}
