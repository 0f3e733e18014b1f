package sentiment

import (
	"math"
	"sort"
	"strings"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// categoryKeywords is the ordered, first-match-wins pain-point category
// table: each comment's text is checked against categories in order and
// assigned to the first one whose keywords appear in it.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"usability", []string{"confusing", "difficult", "hard to use", "complicated", "interface", "ui", "ux", "navigation"}},
	{"performance", []string{"slow", "crash", "freeze", "lag", "loading", "speed", "performance", "battery"}},
	{"features", []string{"missing", "lack", "need", "want", "feature", "functionality", "option"}},
	{"pricing", []string{"expensive", "price", "cost", "money", "subscription", "payment", "billing"}},
	{"support", []string{"support", "help", "customer service", "response", "contact"}},
	{"bugs", []string{"bug", "error", "broken", "issue", "problem", "glitch", "not working"}},
}

func categorize(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return "other"
}

func round(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(v*mult) / mult
}

func overallLabel(avg float64) models.SentimentLabel {
	switch {
	case avg > 0.1:
		return models.SentimentPositive
	case avg < -0.1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func snippet(text string, max int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max])
}

// AttachToComments fills in Sentiment/Score/Confidence for every comment
// that does not already carry a label, then sorts the slice so all
// negatives precede all neutrals, which precede all positives; within each
// group, higher helpfulness then lower rating sorts first.
func (a *Analyzer) AttachToComments(comments []models.CommentRecord) []models.CommentRecord {
	out := make([]models.CommentRecord, len(comments))
	copy(out, comments)
	for i, c := range out {
		if c.Sentiment == "" {
			r := a.Analyze(c.Text)
			out[i].Sentiment = r.Label
			out[i].Score = r.Score
			out[i].Confidence = r.Confidence
		}
	}
	rank := func(label models.SentimentLabel) int {
		switch label {
		case models.SentimentNegative:
			return 0
		case models.SentimentNeutral:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Sentiment), rank(out[j].Sentiment)
		if ri != rj {
			return ri < rj
		}
		if out[i].Helpfulness != out[j].Helpfulness {
			return out[i].Helpfulness > out[j].Helpfulness
		}
		ri2, rj2 := ratingOrMax(out[i].Rating), ratingOrMax(out[j].Rating)
		return ri2 < rj2
	})
	return out
}

func ratingOrMax(r *int) int {
	if r == nil {
		return math.MaxInt32
	}
	return *r
}

// BuildCompetitorSummary computes the SentimentSummary for one competitor
// from its (already sentiment-tagged and ordered) comments, including
// pain-point extraction and categorization.
func BuildCompetitorSummary(comments []models.CommentRecord) models.SentimentSummary {
	var s models.SentimentSummary
	s.TotalComments = len(comments)
	if s.TotalComments == 0 {
		s.OverallSentiment = models.SentimentNeutral
		return s
	}

	var scoreSum float64
	categories := make(map[string][]string)
	var painPoints, positiveFeedback, neutralFeedback []models.PainPoint

	for _, c := range comments {
		scoreSum += c.Score
		switch c.Sentiment {
		case models.SentimentPositive:
			s.PositiveCount++
			if len(positiveFeedback) < 2 {
				positiveFeedback = append(positiveFeedback, toPainPoint(c))
			}
		case models.SentimentNegative:
			s.NegativeCount++
			if len(painPoints) < 5 {
				painPoints = append(painPoints, toPainPoint(c))
			}
			cat := categorize(c.Text)
			categories[cat] = append(categories[cat], snippet(c.Text, 80))
		default:
			s.NeutralCount++
			if len(neutralFeedback) < 2 {
				neutralFeedback = append(neutralFeedback, toPainPoint(c))
			}
		}
	}

	total := float64(s.TotalComments)
	s.PositivePercentage = round(float64(s.PositiveCount)/total*100, 2)
	s.NegativePercentage = round(float64(s.NegativeCount)/total*100, 2)
	s.NeutralPercentage = round(float64(s.NeutralCount)/total*100, 2)
	s.AverageSentimentScore = round(scoreSum/total, 4)
	s.OverallSentiment = overallLabel(s.AverageSentimentScore)
	s.PainPoints = painPoints
	s.PositiveFeedback = positiveFeedback
	s.NeutralFeedback = neutralFeedback
	if len(categories) > 0 {
		s.PainPointCategories = categories
	}
	return s
}

func toPainPoint(c models.CommentRecord) models.PainPoint {
	return models.PainPoint{
		Text:        snippet(c.Text, 200),
		Author:      c.Author,
		Rating:      c.Rating,
		Confidence:  c.Confidence,
		Helpfulness: c.Helpfulness,
	}
}

// GetSentimentSummary computes the job-level cross-source sentiment summary
// from a flat feedback list. Each feedback item is expected to already carry
// a Sentiment/SentimentScore (attached by the orchestrator's post-processing
// pipeline); items that don't are treated as neutral/0.
func GetSentimentSummary(feedback []models.FeedbackRecord) models.SentimentSummary {
	var s models.SentimentSummary
	s.TotalComments = len(feedback)
	if s.TotalComments == 0 {
		s.OverallSentiment = models.SentimentNeutral
		return s
	}

	var scoreSum float64
	for _, f := range feedback {
		scoreSum += f.SentimentScore
		switch f.Sentiment {
		case models.SentimentPositive:
			s.PositiveCount++
		case models.SentimentNegative:
			s.NegativeCount++
		default:
			s.NeutralCount++
		}
	}

	total := float64(s.TotalComments)
	s.PositivePercentage = round(float64(s.PositiveCount)/total*100, 2)
	s.NegativePercentage = round(float64(s.NegativeCount)/total*100, 2)
	s.NeutralPercentage = round(float64(s.NeutralCount)/total*100, 2)
	s.AverageSentimentScore = round(scoreSum/total, 4)
	s.OverallSentiment = overallLabel(s.AverageSentimentScore)
	return s
}
