// Package rank computes the composite score that orders canonical brands:
// a weighted combination of min-max normalized stars, review volume, and
// review sentiment.
package rank

import (
	"math"
	"sort"

	"github.com/brewrank/brewrank/internal/dedupe"
	"github.com/brewrank/brewrank/internal/model"
)

// Ranker computes composite scores.
type Ranker struct {
	cfg model.RankingConfig
}

// NewRanker creates a ranker with the given weights.
func NewRanker(cfg model.RankingConfig) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank scores and orders the brands. sentiments must be parallel to brands
// (as produced by sentiment.ScoreBrands). The result is deterministic for a
// fixed input: descending by composite score, ties broken by name.
//
// Components with no observation for a brand (unrated, no reviews) contribute
// the 0.5 midpoint of the normalized scale, so missing data neither rewards
// nor punishes.
func (r *Ranker) Rank(brands []model.CanonicalBrand, sentiments []model.SentimentScore) []model.RankedEntry {
	n := len(brands)

	stars := make([]float64, n)
	volume := make([]float64, n)
	compound := make([]float64, n)

	for i, b := range brands {
		if s, ok := b.Stars(); ok {
			stars[i] = s
		} else {
			stars[i] = math.NaN()
		}
		volume[i] = float64(b.Volume())
		if i < len(sentiments) && sentiments[i].Scored {
			compound[i] = sentiments[i].Compound
		} else {
			compound[i] = math.NaN()
		}
	}

	nStars := normalize(stars)
	nVolume := normalize(volume)
	nSentiment := normalize(compound)

	entries := make([]model.RankedEntry, n)
	for i, b := range brands {
		entries[i] = model.RankedEntry{
			Brand:     b,
			Stars:     zeroNaN(stars[i]),
			Volume:    volume[i],
			Sentiment: zeroNaN(compound[i]),
			Score: r.cfg.WeightStars*nStars[i] +
				r.cfg.WeightVolume*nVolume[i] +
				r.cfg.WeightSentiment*nSentiment[i],
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return dedupe.NormalizeName(entries[i].Brand.Name) < dedupe.NormalizeName(entries[j].Brand.Name)
	})

	return entries
}

// normalize min-max scales the observed values into [0,1]. NaN entries map to
// 0.5. When fewer than two observations exist there is no spread to scale, so
// every entry gets 0.5.
func normalize(values []float64) []float64 {
	min, max := math.Inf(1), math.Inf(-1)
	observed := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		observed++
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if observed < 2 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	span := max - min + 1e-9
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = 0.5
			continue
		}
		out[i] = (v - min) / span
	}
	return out
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
