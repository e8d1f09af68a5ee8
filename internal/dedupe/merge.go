package dedupe

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/model"
)

// Merger clusters ShopRecords from all providers into canonical brands.
type Merger struct {
	cfg model.DedupeConfig
}

// NewMerger creates a merger with the given thresholds.
func NewMerger(cfg model.DedupeConfig) *Merger {
	return &Merger{cfg: cfg}
}

// Merge groups records that refer to the same physical business: normalized
// names that match exactly or are within the similarity threshold, at
// coordinates within the distance threshold. Every record lands in exactly
// one brand. Malformed records (no name, unusable coordinates) are dropped;
// the count of dropped rows is returned alongside the brands.
//
// Output order is deterministic: records are processed Google-first then by
// normalized name, so the canonical name prefers the Google listing, and the
// resulting brands are sorted by name.
func (m *Merger) Merge(records []model.ShopRecord) ([]model.CanonicalBrand, int) {
	clean := make([]model.ShopRecord, 0, len(records))
	dropped := 0
	for _, r := range records {
		if NormalizeName(r.Name) == "" || !r.Coordinates.Valid() {
			dropped++
			log.WithFields(log.Fields{
				"provider": r.Provider,
				"id":       r.ProviderID,
				"name":     r.Name,
			}).Warn("dropping malformed record")
			continue
		}
		clean = append(clean, r)
	}

	sort.SliceStable(clean, func(i, j int) bool {
		if clean[i].Provider != clean[j].Provider {
			return clean[i].Provider < clean[j].Provider
		}
		ni, nj := NormalizeName(clean[i].Name), NormalizeName(clean[j].Name)
		if ni != nj {
			return ni < nj
		}
		return clean[i].ProviderID < clean[j].ProviderID
	})

	type cluster struct {
		key   string
		brand model.CanonicalBrand
	}
	var clusters []*cluster

	for _, r := range clean {
		key := NormalizeName(r.Name)

		var home *cluster
		for _, c := range clusters {
			if !m.sameBrand(c.key, c.brand.Coordinates, key, r.Coordinates) {
				continue
			}
			home = c
			break
		}

		if home == nil {
			clusters = append(clusters, &cluster{
				key: key,
				brand: model.CanonicalBrand{
					Name:        r.Name,
					Address:     r.Address,
					Coordinates: r.Coordinates,
					Members:     []model.ShopRecord{r},
				},
			})
			continue
		}

		home.brand.Members = append(home.brand.Members, r)
		if home.brand.Address == "" {
			home.brand.Address = r.Address
		}
	}

	brands := make([]model.CanonicalBrand, 0, len(clusters))
	for _, c := range clusters {
		brands = append(brands, c.brand)
	}
	sort.SliceStable(brands, func(i, j int) bool {
		return NormalizeName(brands[i].Name) < NormalizeName(brands[j].Name)
	})

	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("malformed records dropped during merge")
	}

	return brands, dropped
}

func (m *Merger) sameBrand(keyA string, coordA model.Coordinates, keyB string, coordB model.Coordinates) bool {
	if HaversineMeters(coordA, coordB) > m.cfg.MaxDistanceMeters {
		return false
	}
	if keyA == keyB {
		return true
	}
	return NameSimilarity(keyA, keyB) >= m.cfg.NameSimilarity
}
