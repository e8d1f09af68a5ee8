package model

import "time"

// Config is the complete brewrank configuration.
// Hierarchy: CLI flags > BREWRANK_* env vars > ~/.brewrank/config.yaml > defaults.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	HTTP    HTTPConfig    `yaml:"http"`
	Dedupe  DedupeConfig  `yaml:"dedupe"`
	Ranking RankingConfig `yaml:"ranking"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Serve   ServeConfig   `yaml:"serve"`
}

// SearchConfig controls what collect asks the providers for.
type SearchConfig struct {
	// Location is the free-form location string passed to Yelp.
	Location string `yaml:"location"`
	// Center is the lat/lng required by Google Nearby Search. Defaults to the
	// Tulsa centroid; override with --lat/--lng for another city.
	Center       Coordinates `yaml:"center"`
	RadiusMeters int         `yaml:"radius_meters"`
	Keyword      string      `yaml:"keyword"`
	Providers    []string    `yaml:"providers"`
	// MaxPages bounds pagination per provider.
	MaxPages int `yaml:"max_pages"`
	// IncludeReviews fetches up to three Yelp review excerpts per business.
	IncludeReviews bool `yaml:"include_reviews"`
}

// HTTPConfig controls the shared provider HTTP client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	// RetryMax bounds retries on 429/5xx responses.
	RetryMax       int           `yaml:"retry_max"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	// RequestsPerSecond and Burst feed the per-host token bucket.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// DedupeConfig controls brand clustering.
type DedupeConfig struct {
	// MaxDistanceMeters is how far apart two records may be and still refer to
	// the same storefront.
	MaxDistanceMeters float64 `yaml:"max_distance_meters"`
	// NameSimilarity in [0,1]; 1 requires exact normalized names.
	NameSimilarity float64 `yaml:"name_similarity"`
}

// RankingConfig holds the composite score weights.
type RankingConfig struct {
	WeightStars     float64 `yaml:"weight_stars"`
	WeightVolume    float64 `yaml:"weight_volume"`
	WeightSentiment float64 `yaml:"weight_sentiment"`
	TopN            int     `yaml:"top_n"`
}

// CacheConfig controls the layered API response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig holds the pipeline's file layout.
type OutputConfig struct {
	RawDir     string `yaml:"raw_dir"`
	InterimDir string `yaml:"interim_dir"`
	OutputsDir string `yaml:"outputs_dir"`
	// FontFile is the TTF used for the word cloud; rendering is skipped with a
	// warning when empty or missing.
	FontFile string `yaml:"font_file"`
	Verbose  bool   `yaml:"verbose"`
}

// ServeConfig controls the dashboard server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Location: "Tulsa, OK",
			// Tulsa centroid, matching the default location.
			Center:         Coordinates{Lat: 36.15398, Lng: -95.99277},
			RadiusMeters:   15000,
			Keyword:        "coffee",
			Providers:      []string{ProviderGoogle, ProviderYelp},
			MaxPages:       4,
			IncludeReviews: false,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "brewrank/0.1 (+https://github.com/brewrank/brewrank)",
			MaxBodyBytes:      2_000_000,
			RetryMax:          3,
			RetryBaseDelay:    500 * time.Millisecond,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Dedupe: DedupeConfig{
			MaxDistanceMeters: 150,
			NameSimilarity:    0.8,
		},
		Ranking: RankingConfig{
			WeightStars:     0.6,
			WeightVolume:    0.3,
			WeightSentiment: 0.1,
			TopN:            10,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			RawDir:     "data/raw",
			InterimDir: "data/interim",
			OutputsDir: "data/outputs",
			FontFile:   "",
			Verbose:    false,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}
