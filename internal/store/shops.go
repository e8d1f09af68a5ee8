package store

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/model"
)

func shopHeader() []string {
	header := []string{
		"provider", "provider_id", "name", "address", "lat", "lng",
		"rating", "review_count", "price", "categories", "url",
	}
	for i := 1; i <= maxFlattenedReviews; i++ {
		header = append(header,
			fmt.Sprintf("review_%d_text", i),
			fmt.Sprintf("review_%d_rating", i),
			fmt.Sprintf("review_%d_time", i),
		)
	}
	return header
}

// WriteShops writes one provider's raw records. Reviews are flattened into
// review_N_text/rating/time columns, the layout the analyze stage expects.
func WriteShops(path string, shops []model.ShopRecord) error {
	rows := make([][]string, 0, len(shops))
	for _, s := range shops {
		row := []string{
			s.Provider,
			s.ProviderID,
			s.Name,
			s.Address,
			formatFloat(s.Coordinates.Lat),
			formatFloat(s.Coordinates.Lng),
			formatFloat(s.Rating),
			formatInt(s.ReviewCount),
			s.PriceTier,
			strings.Join(s.Categories, ","),
			s.URL,
		}
		for i := 0; i < maxFlattenedReviews; i++ {
			if i < len(s.Reviews) {
				r := s.Reviews[i]
				row = append(row, r.Text, formatFloat(r.Rating), r.CreatedAt)
			} else {
				row = append(row, "", "", "")
			}
		}
		rows = append(rows, row)
	}
	return writeCSV(path, shopHeader(), rows)
}

// ReadShops loads a raw provider CSV. Malformed rows (wrong width, unparsable
// numerics) are dropped and counted rather than failing the run.
func ReadShops(path string) ([]model.ShopRecord, int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}

	want := len(shopHeader())
	if len(header) != want {
		return nil, 0, fmt.Errorf("%s: unexpected header width %d (want %d)", path, len(header), want)
	}

	shops := make([]model.ShopRecord, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		s, err := shopFromRow(row)
		if err != nil {
			dropped++
			log.WithFields(log.Fields{"file": path, "row": i + 2}).Warnf("dropping malformed row: %v", err)
			continue
		}
		shops = append(shops, s)
	}
	return shops, dropped, nil
}

func shopFromRow(row []string) (model.ShopRecord, error) {
	if len(row) != len(shopHeader()) {
		return model.ShopRecord{}, fmt.Errorf("expected %d fields, got %d", len(shopHeader()), len(row))
	}

	lat, err := parseFloat(row[4])
	if err != nil {
		return model.ShopRecord{}, fmt.Errorf("lat: %w", err)
	}
	lng, err := parseFloat(row[5])
	if err != nil {
		return model.ShopRecord{}, fmt.Errorf("lng: %w", err)
	}
	rating, err := parseFloat(row[6])
	if err != nil {
		return model.ShopRecord{}, fmt.Errorf("rating: %w", err)
	}
	count, err := parseInt(row[7])
	if err != nil {
		return model.ShopRecord{}, fmt.Errorf("review_count: %w", err)
	}

	s := model.ShopRecord{
		Provider:    row[0],
		ProviderID:  row[1],
		Name:        row[2],
		Address:     row[3],
		Coordinates: model.Coordinates{Lat: zeroIfNaN(lat), Lng: zeroIfNaN(lng)},
		Rating:      zeroIfNaN(rating),
		ReviewCount: count,
		PriceTier:   row[8],
		URL:         row[10],
	}
	if row[9] != "" {
		s.Categories = strings.Split(row[9], ",")
	}

	for i := 0; i < maxFlattenedReviews; i++ {
		base := 11 + i*3
		text := row[base]
		if strings.TrimSpace(text) == "" {
			continue
		}
		rr, err := parseFloat(row[base+1])
		if err != nil {
			return model.ShopRecord{}, fmt.Errorf("review_%d_rating: %w", i+1, err)
		}
		s.Reviews = append(s.Reviews, model.Review{
			Text:      text,
			Rating:    zeroIfNaN(rr),
			CreatedAt: row[base+2],
		})
	}

	return s, nil
}

func zeroIfNaN(f float64) float64 {
	if f != f {
		return 0
	}
	return f
}
