// Package communityboard implements a reference SourceScraper modeled on a
// forum/discussion-board data source (e.g. a product-feedback board or
// subreddit-style community): an HTTP client with a custom transport,
// sequential queries where a failed query is counted and skipped (not
// retried), and a dedicated extraction step.
package communityboard

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/criztiandev/ideavalidator/internal/models"
	"github.com/criztiandev/ideavalidator/internal/scraper"
)

// SearchHit is one item returned by a single query against the board, before
// it has been turned into CompetitorRecord/FeedbackRecord shapes.
type SearchHit struct {
	Title       string
	URL         string
	Snippet     string
	Author      string
	Date        string
	Rating      *int
	Helpfulness float64
}

// SearchFunc issues one query against the board and returns its hits. New
// builds a real HTTP-backed SearchFunc from BaseURL when given nil; tests
// inject a fake to avoid live network calls.
type SearchFunc func(ctx context.Context, query string) ([]SearchHit, error)

// Config holds the scraper's tunables, validated at registration.
type Config struct {
	BaseURL            string
	MaxQueries         int
	MaxReviewsPerQuery int
	QuerySuffixes      []string
	SleepMin           time.Duration
	SleepMax           time.Duration
}

// DefaultConfig bakes in sane values for every field, each overridable by
// the caller before registration.
func DefaultConfig() Config {
	return Config{
		BaseURL:            "https://board.example.com/search",
		MaxQueries:         4,
		MaxReviewsPerQuery: 8,
		QuerySuffixes:      []string{"review", "alternative"},
		SleepMin:           1 * time.Second,
		SleepMax:           3 * time.Second,
	}
}

// Scraper is the discussion-board SourceScraper implementation.
type Scraper struct {
	name       string
	cfg        Config
	httpClient *http.Client
	sleeper    scraper.Sleeper
	search     SearchFunc
}

// New constructs a Scraper. If search is nil, a real HTTP-backed
// implementation against cfg.BaseURL is used.
func New(name string, cfg Config, search SearchFunc) *Scraper {
	s := &Scraper{
		name: name,
		cfg:  cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		sleeper: scraper.NewSleeper(cfg.SleepMin, cfg.SleepMax),
		search:  search,
	}
	if s.search == nil {
		s.search = s.httpSearch
	}
	return s
}

// Name returns the stable source identifier used in metadata and logs.
func (s *Scraper) Name() string { return s.name }

// ValidateConfig checks that the board URL and limits are coherent.
func (s *Scraper) ValidateConfig() bool {
	if strings.TrimSpace(s.cfg.BaseURL) == "" {
		return false
	}
	if s.cfg.MaxQueries <= 0 || s.cfg.MaxReviewsPerQuery <= 0 {
		return false
	}
	if s.cfg.SleepMax < s.cfg.SleepMin {
		return false
	}
	return true
}

// Scrape derives queries, issues them sequentially with a randomized delay
// between each, and turns hits into competitor + feedback records.
func (s *Scraper) Scrape(ctx context.Context, keywords []models.Keyword, ideaText string) models.ScrapingResult {
	queries := scraper.BuildQueries(keywords, ideaText, s.cfg.QuerySuffixes, s.cfg.MaxQueries)
	if len(queries) == 0 {
		return models.ScrapingResult{
			Status:       models.StatusFailed,
			ErrorMessage: "no queries could be derived from keywords/idea text",
		}
	}

	var competitors []models.CompetitorRecord
	var feedback []models.FeedbackRecord
	succeeded, failed := 0, 0

	for i, q := range queries {
		if ctx.Err() != nil {
			failed += len(queries) - i
			break
		}

		hits, err := s.search(ctx, q)
		if err != nil {
			log.Printf("[%s] query %q failed: %v", s.name, q, err)
			failed++
			continue
		}
		succeeded++

		comps, fbs := s.toRecords(q, hits)
		competitors = append(competitors, comps...)
		feedback = append(feedback, fbs...)

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
	}

	switch {
	case succeeded == 0:
		return models.ScrapingResult{
			Status:       models.StatusFailed,
			ErrorMessage: fmt.Sprintf("all %d queries failed", len(queries)),
			Metadata:     meta,
		}
	case failed > 0:
		return models.ScrapingResult{
			Status:       models.StatusPartialSuccess,
			Competitors:  competitors,
			Feedback:     feedback,
			ErrorMessage: fmt.Sprintf("%d of %d queries failed", failed, len(queries)),
			Metadata:     meta,
		}
	default:
		return models.ScrapingResult{
			Status:      models.StatusSuccess,
			Competitors: competitors,
			Feedback:    feedback,
			Metadata:    meta,
		}
	}
}

// toRecords turns one query's hits into competitor (entity-level) and
// feedback (item-level) records, ranking for emission by (rating ascending,
// helpfulness descending) so low-rated, high-helpfulness items surface
// first, then capping to MaxReviewsPerQuery.
func (s *Scraper) toRecords(query string, hits []SearchHit) ([]models.CompetitorRecord, []models.FeedbackRecord) {
	sort.SliceStable(hits, func(i, j int) bool {
		ri, rj := ratingOrMax(hits[i].Rating), ratingOrMax(hits[j].Rating)
		if ri != rj {
			return ri < rj
		}
		return hits[i].Helpfulness > hits[j].Helpfulness
	})

	entities := make(map[string]bool)
	var competitors []models.CompetitorRecord
	var feedback []models.FeedbackRecord

	for i, h := range hits {
		if !entities[strings.ToLower(h.Title)] && h.Title != "" {
			entities[strings.ToLower(h.Title)] = true
			competitors = append(competitors, models.CompetitorRecord{
				Name:            h.Title,
				Description:     h.Snippet,
				Website:         h.URL,
				Source:          s.name,
				SourceURL:       h.URL,
				ConfidenceScore: scraper.StartingConfidence(0.8, h.URL != "", h.Snippet != ""),
			})
		}

		if i >= s.cfg.MaxReviewsPerQuery {
			continue
		}
		if h.Snippet == "" {
			continue
		}
		feedback = append(feedback, models.FeedbackRecord{
			Text:      h.Snippet,
			Source:    s.name,
			SourceURL: h.URL,
			AuthorInfo: map[string]string{
				"author": h.Author,
				"date":   h.Date,
				"query":  query,
			},
		})
	}
	return competitors, feedback
}

// FetchDetailComments satisfies scraper.DetailCommentFetcher: re-queries the
// board scoped to one competitor's name and turns the hits into ranked,
// positioned comments. A failed fetch returns nil instead of an error.
func (s *Scraper) FetchDetailComments(ctx context.Context, competitor models.CompetitorRecord) []models.CommentRecord {
	hits, err := s.search(ctx, competitor.Name+" discussion")
	if err != nil {
		log.Printf("[%s] detail fetch for %q failed: %v", s.name, competitor.Name, err)
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool {
		ri, rj := ratingOrMax(hits[i].Rating), ratingOrMax(hits[j].Rating)
		if ri != rj {
			return ri < rj
		}
		return hits[i].Helpfulness > hits[j].Helpfulness
	})

	out := make([]models.CommentRecord, 0, len(hits))
	for i, h := range hits {
		if h.Snippet == "" {
			continue
		}
		out = append(out, models.CommentRecord{
			Text:        h.Snippet,
			Author:      h.Author,
			Date:        h.Date,
			Rating:      h.Rating,
			Position:    i + 1,
			Helpfulness: h.Helpfulness,
			Confidence:  0.75,
		})
	}
	return out
}

// Close releases the underlying HTTP client's idle connections.
func (s *Scraper) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func ratingOrMax(r *int) int {
	if r == nil {
		return 1 << 30
	}
	return *r
}

// httpSearch is the real HTTP-backed SearchFunc, used when no fake is
// injected. It is intentionally minimal: a production deployment would plug
// in the board's actual search API response shape here.
func (s *Scraper) httpSearch(ctx context.Context, query string) ([]SearchHit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	req.URL.RawQuery = q.Encode()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	// The wire shape of a real discussion-board search API is out of scope
	// for this contract; a concrete deployment decodes resp.Body here.
	return nil, nil
}
