package rank

import (
	"testing"

	"github.com/brewrank/brewrank/internal/model"
)

func testRankingConfig() model.RankingConfig {
	return model.RankingConfig{
		WeightStars:     0.6,
		WeightVolume:    0.3,
		WeightSentiment: 0.1,
		TopN:            10,
	}
}

func brand(name string, rating float64, reviews int) model.CanonicalBrand {
	return model.CanonicalBrand{
		Name: name,
		Members: []model.ShopRecord{{
			Provider:    model.ProviderGoogle,
			Name:        name,
			Rating:      rating,
			ReviewCount: reviews,
		}},
	}
}

func scored(compound float64) model.SentimentScore {
	return model.SentimentScore{Compound: compound, Scored: true}
}

func neutral() model.SentimentScore {
	return model.SentimentScore{Neutral: 1, Scored: false}
}

func TestRank_Orders(t *testing.T) {
	brands := []model.CanonicalBrand{
		brand("Mediocre Mugs", 3.1, 40),
		brand("Blue Dome Coffee", 4.8, 800),
		brand("Cirque Coffee", 4.5, 300),
	}
	sentiments := []model.SentimentScore{scored(-0.2), scored(0.9), scored(0.5)}

	entries := NewRanker(testRankingConfig()).Rank(brands, sentiments)

	want := []string{"Blue Dome Coffee", "Cirque Coffee", "Mediocre Mugs"}
	for i, name := range want {
		if entries[i].Brand.Name != name {
			t.Errorf("position %d: want %q, got %q", i, name, entries[i].Brand.Name)
		}
	}
}

func TestRank_MonotoneInRating(t *testing.T) {
	base := []model.CanonicalBrand{
		brand("Anchor Low", 3.0, 100),
		brand("Subject", 4.0, 100),
		brand("Anchor High", 5.0, 100),
	}
	sentiments := []model.SentimentScore{neutral(), neutral(), neutral()}

	r := NewRanker(testRankingConfig())

	scoreOf := func(brands []model.CanonicalBrand, name string) float64 {
		for _, e := range r.Rank(brands, sentiments) {
			if e.Brand.Name == name {
				return e.Score
			}
		}
		t.Fatalf("brand %q not found", name)
		return 0
	}

	before := scoreOf(base, "Subject")

	improved := []model.CanonicalBrand{base[0], brand("Subject", 4.6, 100), base[2]}
	after := scoreOf(improved, "Subject")

	if after < before {
		t.Errorf("raising rating lowered score: %f -> %f", before, after)
	}
}

func TestRank_MonotoneInVolume(t *testing.T) {
	sentiments := []model.SentimentScore{neutral(), neutral(), neutral()}
	r := NewRanker(testRankingConfig())

	base := []model.CanonicalBrand{
		brand("Anchor Low", 4.0, 10),
		brand("Subject", 4.0, 200),
		brand("Anchor High", 4.0, 1000),
	}
	improved := []model.CanonicalBrand{base[0], brand("Subject", 4.0, 600), base[2]}

	before := r.Rank(base, sentiments)
	after := r.Rank(improved, sentiments)

	find := func(entries []model.RankedEntry, name string) float64 {
		for _, e := range entries {
			if e.Brand.Name == name {
				return e.Score
			}
		}
		t.Fatalf("brand %q not found", name)
		return 0
	}

	if find(after, "Subject") < find(before, "Subject") {
		t.Errorf("more reviews lowered score")
	}
}

func TestRank_MonotoneInSentiment(t *testing.T) {
	brands := []model.CanonicalBrand{
		brand("Anchor Low", 4.0, 100),
		brand("Subject", 4.0, 100),
		brand("Anchor High", 4.0, 100),
	}
	r := NewRanker(testRankingConfig())

	find := func(entries []model.RankedEntry, name string) float64 {
		for _, e := range entries {
			if e.Brand.Name == name {
				return e.Score
			}
		}
		t.Fatalf("brand %q not found", name)
		return 0
	}

	before := r.Rank(brands, []model.SentimentScore{scored(-0.5), scored(0.1), scored(0.8)})
	after := r.Rank(brands, []model.SentimentScore{scored(-0.5), scored(0.6), scored(0.8)})

	if find(after, "Subject") < find(before, "Subject") {
		t.Errorf("better sentiment lowered score")
	}
}

func TestRank_TiesBreakByName(t *testing.T) {
	brands := []model.CanonicalBrand{
		brand("Zebra Beans", 4.0, 100),
		brand("Acme Coffee", 4.0, 100),
	}
	sentiments := []model.SentimentScore{neutral(), neutral()}

	entries := NewRanker(testRankingConfig()).Rank(brands, sentiments)
	if entries[0].Brand.Name != "Acme Coffee" {
		t.Errorf("ties must break ascending by name, got %q first", entries[0].Brand.Name)
	}
}

func TestRank_Deterministic(t *testing.T) {
	brands := []model.CanonicalBrand{
		brand("Blue Dome Coffee", 4.8, 800),
		brand("Cirque Coffee", 4.5, 300),
		brand("Hilltop Roasters", 4.4, 120),
	}
	sentiments := []model.SentimentScore{scored(0.9), scored(0.5), neutral()}

	r := NewRanker(testRankingConfig())
	first := r.Rank(brands, sentiments)
	for run := 0; run < 5; run++ {
		again := r.Rank(brands, sentiments)
		for i := range first {
			if again[i].Brand.Name != first[i].Brand.Name || again[i].Score != first[i].Score {
				t.Fatalf("run %d: ranking not deterministic at %d", run, i)
			}
		}
	}
}

func TestRank_NoReviewsGetsNeutralComponent(t *testing.T) {
	brands := []model.CanonicalBrand{
		brand("Reviewed", 4.5, 100),
		brand("Unreviewed", 4.5, 100),
		brand("Also Reviewed", 4.5, 100),
	}
	sentiments := []model.SentimentScore{scored(0.8), neutral(), scored(-0.8)}

	entries := NewRanker(testRankingConfig()).Rank(brands, sentiments)

	for _, e := range entries {
		if e.Brand.Name == "Unreviewed" {
			if e.Sentiment != 0 {
				t.Errorf("unreviewed brand should report zero sentiment, got %f", e.Sentiment)
			}
			// Neutral sits between the positive and negative brands.
			if entries[0].Brand.Name != "Reviewed" || entries[2].Brand.Name != "Also Reviewed" {
				t.Errorf("neutral brand should rank between the extremes: %v", names(entries))
			}
			return
		}
	}
	t.Fatalf("unreviewed brand missing from ranking")
}

func TestRank_SingleBrand(t *testing.T) {
	entries := NewRanker(testRankingConfig()).Rank(
		[]model.CanonicalBrand{brand("Lonely", 4.2, 50)},
		[]model.SentimentScore{neutral()},
	)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	// With a single observation every component normalizes to the midpoint.
	if entries[0].Score < 0.49 || entries[0].Score > 0.51 {
		t.Errorf("expected ~0.5 composite, got %f", entries[0].Score)
	}
}

func names(entries []model.RankedEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Brand.Name
	}
	return out
}
