package store

import (
	"fmt"
	"math"

	"github.com/brewrank/brewrank/internal/model"
)

// BrandRow is the flat canonical-brand record in the interim CSV. Per-provider
// ratings are kept side by side the way the original interim file laid them
// out, so the provenance of every number stays visible.
type BrandRow struct {
	Name               string
	Lat                float64
	Lng                float64
	Address            string
	Providers          string
	RatingGoogle       float64 // NaN when Google did not list the shop
	RatingsTotalGoogle int
	GooglePlaceID      string
	RatingYelp         float64 // NaN when Yelp did not list the shop
	ReviewCountYelp    int
	YelpID             string
	URL                string
	ReviewText         string
}

// HasGoogle reports whether Google listed a rating for this brand.
func (r BrandRow) HasGoogle() bool { return !math.IsNaN(r.RatingGoogle) }

// HasYelp reports whether Yelp listed a rating for this brand.
func (r BrandRow) HasYelp() bool { return !math.IsNaN(r.RatingYelp) }

// BrandRowFrom flattens a canonical brand.
func BrandRowFrom(b model.CanonicalBrand) BrandRow {
	row := BrandRow{
		Name:         b.Name,
		Lat:          b.Coordinates.Lat,
		Lng:          b.Coordinates.Lng,
		Address:      b.Address,
		Providers:    b.Providers(),
		RatingGoogle: math.NaN(),
		RatingYelp:   math.NaN(),
		ReviewText:   b.ReviewText(),
	}

	if g, ok := b.Member(model.ProviderGoogle); ok {
		if g.HasRating() {
			row.RatingGoogle = g.Rating
		}
		row.RatingsTotalGoogle = g.ReviewCount
		row.GooglePlaceID = g.ProviderID
	}
	if y, ok := b.Member(model.ProviderYelp); ok {
		if y.HasRating() {
			row.RatingYelp = y.Rating
		}
		row.ReviewCountYelp = y.ReviewCount
		row.YelpID = y.ProviderID
		row.URL = y.URL
	}

	return row
}

var brandHeader = []string{
	"canonical_name", "lat", "lng", "address", "providers",
	"rating_google", "ratings_total_google", "google_place_id",
	"rating_yelp", "review_count_yelp", "yelp_id", "url", "review_text",
}

// WriteBrands writes the interim canonical CSV.
func WriteBrands(path string, brands []model.CanonicalBrand) error {
	rows := make([][]string, 0, len(brands))
	for _, b := range brands {
		r := BrandRowFrom(b)
		rows = append(rows, []string{
			r.Name,
			formatFloat(r.Lat),
			formatFloat(r.Lng),
			r.Address,
			r.Providers,
			formatFloat(r.RatingGoogle),
			formatInt(r.RatingsTotalGoogle),
			r.GooglePlaceID,
			formatFloat(r.RatingYelp),
			formatInt(r.ReviewCountYelp),
			r.YelpID,
			r.URL,
			r.ReviewText,
		})
	}
	return writeCSV(path, brandHeader, rows)
}

// ReadBrands loads the interim canonical CSV for the dashboard.
func ReadBrands(path string) ([]BrandRow, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(header) != len(brandHeader) {
		return nil, fmt.Errorf("%s: unexpected header width %d (want %d)", path, len(header), len(brandHeader))
	}

	out := make([]BrandRow, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(brandHeader) {
			continue
		}
		lat, err1 := parseFloat(row[1])
		lng, err2 := parseFloat(row[2])
		rg, err3 := parseFloat(row[5])
		rtg, err4 := parseInt(row[6])
		ry, err5 := parseFloat(row[8])
		rcy, err6 := parseInt(row[9])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			continue
		}
		out = append(out, BrandRow{
			Name:               row[0],
			Lat:                lat,
			Lng:                lng,
			Address:            row[3],
			Providers:          row[4],
			RatingGoogle:       rg,
			RatingsTotalGoogle: rtg,
			GooglePlaceID:      row[7],
			RatingYelp:         ry,
			ReviewCountYelp:    rcy,
			YelpID:             row[10],
			URL:                row[11],
			ReviewText:         row[12],
		})
	}
	return out, nil
}
