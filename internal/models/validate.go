package models

import "fmt"

// ValidateCompetitor checks the invariants spec'd for a CompetitorRecord:
// non-empty source/source_url and confidence_score in [0,1].
func ValidateCompetitor(c CompetitorRecord) error {
	if c.Source == "" {
		return fmt.Errorf("competitor %q: missing source", c.Name)
	}
	if c.SourceURL == "" {
		return fmt.Errorf("competitor %q: missing source_url", c.Name)
	}
	if c.ConfidenceScore < 0 || c.ConfidenceScore > 1 {
		return fmt.Errorf("competitor %q: confidence_score %f out of [0,1]", c.Name, c.ConfidenceScore)
	}
	return nil
}

// ValidateFeedback checks the invariants spec'd for a FeedbackRecord:
// sentiment_score in [-1,1] and sentiment in the known label set (when set).
func ValidateFeedback(f FeedbackRecord) error {
	if f.SentimentScore < -1 || f.SentimentScore > 1 {
		return fmt.Errorf("feedback: sentiment_score %f out of [-1,1]", f.SentimentScore)
	}
	switch f.Sentiment {
	case "", SentimentPositive, SentimentNegative, SentimentNeutral:
	default:
		return fmt.Errorf("feedback: unknown sentiment label %q", f.Sentiment)
	}
	return nil
}

// PercentagesWithinTolerance reports whether the three percentages sum to
// 100 within a ±1 tolerance, as required when total_comments > 0.
func PercentagesWithinTolerance(pos, neg, neu float64) bool {
	sum := pos + neg + neu
	return sum >= 99 && sum <= 101
}
