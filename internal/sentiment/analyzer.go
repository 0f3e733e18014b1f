// Package sentiment wraps govader's VADER implementation behind the
// SentimentAnalyzer contract and builds cross-record sentiment summaries.
package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// positiveThreshold and negativeThreshold mirror VADER's own recommended
// compound-score cutoffs.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Analyzer classifies free text into a label, a score in [-1,1], and a
// confidence in [0,1]. It is stateless, synchronous, and side-effect-free.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer constructs a ready-to-use Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Result is the output of Analyze.
type Result struct {
	Label      models.SentimentLabel
	Score      float64
	Confidence float64
}

// Analyze scores a single piece of text. Empty or whitespace-only input
// returns neutral, 0.0, 0.0 without invoking the underlying model.
func (a *Analyzer) Analyze(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Label: models.SentimentNeutral, Score: 0, Confidence: 0}
	}

	scores := a.vader.PolarityScores(text)
	label := models.SentimentNeutral
	switch {
	case scores.Compound >= positiveThreshold:
		label = models.SentimentPositive
	case scores.Compound <= negativeThreshold:
		label = models.SentimentNegative
	}

	confidence := 1 - scores.Neutral
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Result{Label: label, Score: scores.Compound, Confidence: confidence}
}
