// Package sentiment scores review text with the VADER lexicon. VADER is
// rule-based and deterministic, which keeps the composite ranking stable
// across runs with the same inputs.
package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/brewrank/brewrank/internal/model"
)

// Scorer wraps a VADER analyzer.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a scorer with the default VADER lexicon.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the polarity breakdown for one document. Empty text yields a
// defined neutral score with Scored=false so a shop with no reviews ranks on
// its rating and volume alone.
func (s *Scorer) Score(text string) model.SentimentScore {
	if text == "" {
		return model.SentimentScore{Neutral: 1, Scored: false}
	}

	polarity := s.analyzer.PolarityScores(text)
	return model.SentimentScore{
		Negative: polarity.Negative,
		Neutral:  polarity.Neutral,
		Positive: polarity.Positive,
		Compound: polarity.Compound,
		Scored:   true,
	}
}

// ScoreBrands scores each brand's concatenated review text, in brand order.
func (s *Scorer) ScoreBrands(brands []model.CanonicalBrand) []model.SentimentScore {
	scores := make([]model.SentimentScore, len(brands))
	for i, b := range brands {
		scores[i] = s.Score(b.ReviewText())
	}
	return scores
}
