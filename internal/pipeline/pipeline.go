package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/cache"
	"github.com/brewrank/brewrank/internal/dedupe"
	"github.com/brewrank/brewrank/internal/model"
	"github.com/brewrank/brewrank/internal/provider"
	"github.com/brewrank/brewrank/internal/rank"
	"github.com/brewrank/brewrank/internal/render"
	"github.com/brewrank/brewrank/internal/sentiment"
	"github.com/brewrank/brewrank/internal/store"
)

// Raw CSV filenames, one per provider.
var rawFiles = map[string]string{
	model.ProviderGoogle: "google_places_coffee.csv",
	model.ProviderYelp:   "yelp_coffee.csv",
}

// Pipeline orchestrates the two stages: collect pulls listings from the
// provider APIs into raw CSVs; analyze merges them into canonical brands,
// scores review sentiment, ranks, and renders charts. The stages are
// decoupled through the CSV files so analyze can be re-run offline.
type Pipeline struct {
	cfg *model.Config
}

// New creates a pipeline with the given configuration.
func New(cfg *model.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Collect fetches shop listings from every configured provider and writes one
// raw CSV per provider. Missing credentials for any requested provider are an
// error before the first request is made.
func (p *Pipeline) Collect(ctx context.Context) error {
	client := provider.NewClient(p.cfg.HTTP, p.responseCache(), p.cfg.Cache.TTL)

	providers, err := provider.FromEnv(p.cfg.Search.Providers, client)
	if err != nil {
		return err
	}

	for _, prov := range providers {
		logger := log.WithField("provider", prov.Name())
		logger.WithFields(log.Fields{
			"keyword": p.cfg.Search.Keyword,
			"radius":  p.cfg.Search.RadiusMeters,
		}).Info("collecting listings")

		shops, err := prov.Search(ctx, p.cfg.Search)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Retries are exhausted inside the client; keep whatever pages
			// came back and move on to the next provider.
			logger.WithError(err).Warn("collection incomplete, keeping partial results")
		}

		path := p.rawPath(prov.Name())
		if err := store.WriteShops(path, shops); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.WithFields(log.Fields{"shops": len(shops), "path": path}).Info("raw CSV written")
	}

	return nil
}

// Analyze reads the raw CSVs, merges listings into canonical brands, scores
// sentiment, ranks, and writes the interim CSVs plus chart images. Raw files
// that do not exist yet are skipped with a warning, so a single-provider
// collect still analyzes cleanly.
func (p *Pipeline) Analyze() error {
	var records []model.ShopRecord
	for _, name := range p.cfg.Search.Providers {
		path := p.rawPath(name)
		shops, dropped, err := store.ReadShops(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.WithField("path", path).Warn("raw CSV missing, skipping provider")
				continue
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		if dropped > 0 {
			log.WithFields(log.Fields{"path": path, "dropped": dropped}).Warn("malformed raw rows dropped")
		}
		records = append(records, shops...)
	}
	if len(records) == 0 {
		return fmt.Errorf("no shop records found under %s; run `brewrank collect` first", p.cfg.Output.RawDir)
	}

	brands, dropped := dedupe.NewMerger(p.cfg.Dedupe).Merge(records)
	log.WithFields(log.Fields{
		"records": len(records),
		"brands":  len(brands),
		"dropped": dropped,
	}).Info("merged listings into canonical brands")

	canonicalPath := filepath.Join(p.cfg.Output.InterimDir, "canonical.csv")
	if err := store.WriteBrands(canonicalPath, brands); err != nil {
		return fmt.Errorf("write %s: %w", canonicalPath, err)
	}

	scores := sentiment.NewScorer().ScoreBrands(brands)
	sentimentPath := filepath.Join(p.cfg.Output.InterimDir, "reviews_scored.csv")
	if err := store.WriteSentiments(sentimentPath, brands, scores); err != nil {
		return fmt.Errorf("write %s: %w", sentimentPath, err)
	}

	entries := rank.NewRanker(p.cfg.Ranking).Rank(brands, scores)
	rankedPath := filepath.Join(p.cfg.Output.InterimDir, "ranked.csv")
	if err := store.WriteRanked(rankedPath, entries); err != nil {
		return fmt.Errorf("write %s: %w", rankedPath, err)
	}
	log.WithFields(log.Fields{"brands": len(entries), "path": rankedPath}).Info("ranking written")

	charts := render.NewCharts(p.cfg.Output.OutputsDir, p.cfg.Ranking.TopN, p.cfg.Output.FontFile)
	ranked, err := store.ReadRanked(rankedPath)
	if err != nil {
		return fmt.Errorf("reload %s: %w", rankedPath, err)
	}
	if err := charts.RenderAll(ranked, allReviewText(brands)); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	return nil
}

// RankedPath returns the path serve and analyze share for the ranked CSV.
func (p *Pipeline) RankedPath() string {
	return filepath.Join(p.cfg.Output.InterimDir, "ranked.csv")
}

// CanonicalPath returns the path of the canonical brand CSV.
func (p *Pipeline) CanonicalPath() string {
	return filepath.Join(p.cfg.Output.InterimDir, "canonical.csv")
}

func (p *Pipeline) rawPath(providerName string) string {
	file, ok := rawFiles[providerName]
	if !ok {
		file = providerName + "_coffee.csv"
	}
	return filepath.Join(p.cfg.Output.RawDir, file)
}

func (p *Pipeline) responseCache() cache.Cache {
	if !p.cfg.Cache.Enabled {
		return nil
	}
	dir := p.cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.WithError(err).Warn("no home directory, using in-memory cache only")
			return cache.NewMemoryCache(p.cfg.Cache.TTL)
		}
		dir = filepath.Join(home, ".brewrank", "cache")
	}
	return cache.NewLayeredCache(dir, p.cfg.Cache.TTL)
}

func allReviewText(brands []model.CanonicalBrand) string {
	var parts []string
	for _, b := range brands {
		if text := b.ReviewText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
