package model

import "strings"

// Provider identifiers as they appear in the provenance column of every CSV.
const (
	ProviderGoogle = "google"
	ProviderYelp   = "yelp"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point carries usable values. Rows with zeroed or
// out-of-range coordinates are dropped during deduplication.
func (c Coordinates) Valid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Review is a single review attached to a ShopRecord. Yelp returns at most
// three review excerpts per business.
type Review struct {
	Text      string  `json:"text"`
	Rating    float64 `json:"rating"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// ShopRecord is one coffee shop as reported by a single provider, keyed by the
// provider-specific ID.
type ShopRecord struct {
	Provider    string      `json:"provider"`
	ProviderID  string      `json:"provider_id"`
	Name        string      `json:"name"`
	Address     string      `json:"address,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Rating      float64     `json:"rating,omitempty"`
	ReviewCount int         `json:"review_count,omitempty"`
	PriceTier   string      `json:"price_tier,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	URL         string      `json:"url,omitempty"`
	Reviews     []Review    `json:"reviews,omitempty"`
}

// HasRating reports whether the provider supplied a rating at all. Both APIs
// use 0 to mean "unrated".
func (s ShopRecord) HasRating() bool {
	return s.Rating > 0
}

// CanonicalBrand is a deduplicated cluster of ShopRecords judged to refer to
// the same physical business. It owns the union of its members' reviews.
type CanonicalBrand struct {
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	Coordinates Coordinates  `json:"coordinates"`
	Members     []ShopRecord `json:"members"`
}

// Providers returns the sorted provenance flags for the brand, e.g.
// "google+yelp" for a brand seen by both APIs.
func (b CanonicalBrand) Providers() string {
	var flags []string
	for _, p := range []string{ProviderGoogle, ProviderYelp} {
		for _, m := range b.Members {
			if m.Provider == p {
				flags = append(flags, p)
				break
			}
		}
	}
	return strings.Join(flags, "+")
}

// Member returns the first member from the given provider, if any.
func (b CanonicalBrand) Member(provider string) (ShopRecord, bool) {
	for _, m := range b.Members {
		if m.Provider == provider {
			return m, true
		}
	}
	return ShopRecord{}, false
}

// Stars is the mean of the ratings the providers supplied. A brand with no
// rated members returns 0 and false.
func (b CanonicalBrand) Stars() (float64, bool) {
	sum, n := 0.0, 0
	for _, m := range b.Members {
		if m.HasRating() {
			sum += m.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Volume is the review volume of the brand, the maximum review count any
// provider reported. Google and Yelp count reviews independently, so taking
// the max avoids double counting the same reviewers.
func (b CanonicalBrand) Volume() int {
	max := 0
	for _, m := range b.Members {
		if m.ReviewCount > max {
			max = m.ReviewCount
		}
	}
	return max
}

// Reviews returns the union of the members' reviews, in member order.
func (b CanonicalBrand) Reviews() []Review {
	var out []Review
	for _, m := range b.Members {
		out = append(out, m.Reviews...)
	}
	return out
}

// ReviewText joins all review texts into one document for sentiment scoring
// and the word cloud.
func (b CanonicalBrand) ReviewText() string {
	var parts []string
	for _, r := range b.Reviews() {
		t := strings.TrimSpace(r.Text)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// SentimentScore is the VADER polarity breakdown for one brand's review text.
type SentimentScore struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
	// Scored is false when the brand had no review text; the compound then
	// contributes a defined neutral value to ranking instead of skewing it.
	Scored bool `json:"scored"`
}

// RankedEntry is a CanonicalBrand plus its computed ranking components.
type RankedEntry struct {
	Brand     CanonicalBrand `json:"brand"`
	Stars     float64        `json:"stars"`
	Volume    float64        `json:"volume"`
	Sentiment float64        `json:"sentiment"`
	// Score is the weighted composite of the min-max normalized components.
	Score float64 `json:"score"`
}
