// Package models defines the data model shared by every stage of the idea
// validation pipeline: keyword extraction, per-source scraping, cleaning,
// deduplication, sentiment attachment, and summary aggregation.
package models

import "time"

// Keyword is a single lowercased search token or short phrase. Order within
// a []Keyword slice is significant: callers should treat index 0 as the
// highest-priority term.
type Keyword string

// SentimentLabel is the discrete classification produced by a
// SentimentAnalyzer or attached to a FeedbackRecord/CommentRecord.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ScrapingStatus is the outcome of a single source's Scrape call.
type ScrapingStatus string

const (
	StatusSuccess        ScrapingStatus = "success"
	StatusPartialSuccess ScrapingStatus = "partial_success"
	StatusFailed         ScrapingStatus = "failed"
)

// CompetitorRecord is a single competitor entity found by a source scraper.
type CompetitorRecord struct {
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Website          string            `json:"website,omitempty"`
	EstimatedUsers   string            `json:"estimated_users,omitempty"`
	EstimatedRevenue string            `json:"estimated_revenue,omitempty"`
	PricingModel     string            `json:"pricing_model,omitempty"`
	Source           string            `json:"source"`
	SourceURL        string            `json:"source_url"`
	ConfidenceScore  float64           `json:"confidence_score"`
	LaunchDate       string            `json:"launch_date,omitempty"`
	FounderCEO       string            `json:"founder_ceo,omitempty"`
	ReviewCount      int               `json:"review_count,omitempty"`
	AverageRating    float64           `json:"average_rating,omitempty"`
	Comments         []CommentRecord   `json:"comments,omitempty"`
	SentimentSummary SentimentSummary  `json:"sentiment_summary"`
	Extras           map[string]string `json:"extras,omitempty"`
}

// FeedbackRecord is a single user-feedback snippet (review, post, comment)
// harvested independently of any one competitor.
type FeedbackRecord struct {
	Text            string            `json:"text"`
	Sentiment       SentimentLabel    `json:"sentiment,omitempty"`
	SentimentScore  float64           `json:"sentiment_score"`
	Source          string            `json:"source"`
	SourceURL       string            `json:"source_url"`
	AuthorInfo      map[string]string `json:"author_info,omitempty"`
}

// CommentRecord is a feedback item attached to one specific competitor,
// typically fetched via a SourceScraper's FetchDetailComments hook.
type CommentRecord struct {
	Text        string         `json:"text"`
	Author      string         `json:"author,omitempty"`
	Date        string         `json:"date,omitempty"`
	Rating      *int           `json:"rating,omitempty"`
	Position    int            `json:"position"`
	Sentiment   SentimentLabel `json:"sentiment,omitempty"`
	Score       float64        `json:"sentiment_score"`
	Confidence  float64        `json:"confidence"`
	Helpfulness float64        `json:"helpfulness,omitempty"`
}

// PainPoint is a short, ranked excerpt of negative feedback surfaced in a
// SentimentSummary.
type PainPoint struct {
	Text        string  `json:"text"`
	Author      string  `json:"author,omitempty"`
	Rating      *int    `json:"rating,omitempty"`
	Confidence  float64 `json:"confidence"`
	Helpfulness float64 `json:"helpfulness,omitempty"`
}

// SentimentSummary aggregates a set of labeled feedback, either for a
// single competitor's attached comments or for a whole job's feedback list.
type SentimentSummary struct {
	TotalComments        int                  `json:"total_comments"`
	PositiveCount        int                  `json:"positive_count"`
	NegativeCount        int                  `json:"negative_count"`
	NeutralCount         int                  `json:"neutral_count"`
	PositivePercentage   float64              `json:"positive_percentage"`
	NegativePercentage   float64              `json:"negative_percentage"`
	NeutralPercentage    float64              `json:"neutral_percentage"`
	AverageSentimentScore float64             `json:"average_sentiment_score"`
	OverallSentiment     SentimentLabel       `json:"overall_sentiment"`
	PainPoints           []PainPoint          `json:"pain_points,omitempty"`
	PainPointCategories  map[string][]string  `json:"pain_point_categories,omitempty"`
	PositiveFeedback     []PainPoint          `json:"positive_feedback,omitempty"`
	NeutralFeedback      []PainPoint          `json:"neutral_feedback,omitempty"`
}

// ScrapingResult is what a single SourceScraper.Scrape call returns.
type ScrapingResult struct {
	Status       ScrapingStatus         `json:"status"`
	Competitors  []CompetitorRecord     `json:"competitors"`
	Feedback     []FeedbackRecord       `json:"feedback"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// PartialSourceNote is a (source, message) pair used for the partial source
// bucket of AggregatedMetadata.
type PartialSourceNote struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// FailedSourceNote is a (source, error) pair used for the failed source
// bucket of AggregatedMetadata.
type FailedSourceNote struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// AggregatedMetadata is the coverage/provenance block attached to every
// AggregatedResult.
type AggregatedMetadata struct {
	JobID                 string              `json:"job_id"`
	ProcessingTimeSeconds  float64             `json:"processing_time_seconds"`
	SourcesAttempted      int                 `json:"sources_attempted"`
	SourcesSuccessful     int                 `json:"sources_successful"`
	SourcesPartial        int                 `json:"sources_partial"`
	SourcesFailed         int                 `json:"sources_failed"`
	SuccessfulSources     []string            `json:"successful_sources"`
	PartialSources        []PartialSourceNote `json:"partial_sources"`
	FailedSources         []FailedSourceNote  `json:"failed_sources"`
	TotalCompetitorsFound int                 `json:"total_competitors_found"`
	TotalFeedbackFound    int                 `json:"total_feedback_found"`
	CompletedAt           time.Time           `json:"completed_at"`
	Error                 string              `json:"error,omitempty"`
}

// AggregatedResult is the orchestrator's sole produced artifact: the merged,
// cleaned, deduplicated, sentiment-attached output of one idea validation
// job across every registered source.
type AggregatedResult struct {
	Competitors      []CompetitorRecord  `json:"competitors"`
	Feedback         []FeedbackRecord    `json:"feedback"`
	SentimentSummary SentimentSummary    `json:"sentiment_summary"`
	Metadata         AggregatedMetadata  `json:"metadata"`
}
