package store

import (
	"fmt"

	"github.com/brewrank/brewrank/internal/model"
)

// RankedRow is one line of the ranked CSV, the file the charts and the
// dashboard are built from.
type RankedRow struct {
	Rank      int
	Name      string
	Lat       float64
	Lng       float64
	Providers string
	Stars     float64
	Volume    float64
	Sentiment float64
	Score     float64
}

var rankedHeader = []string{
	"rank", "canonical_name", "lat", "lng", "providers",
	"stars", "volume", "sentiment", "score",
}

// WriteRanked writes the ranked CSV in ranking order.
func WriteRanked(path string, entries []model.RankedEntry) error {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			formatInt(i + 1),
			e.Brand.Name,
			formatFloat(e.Brand.Coordinates.Lat),
			formatFloat(e.Brand.Coordinates.Lng),
			e.Brand.Providers(),
			formatFloat(e.Stars),
			formatFloat(e.Volume),
			formatFloat(e.Sentiment),
			formatFloat(e.Score),
		})
	}
	return writeCSV(path, rankedHeader, rows)
}

// ReadRanked loads the ranked CSV, preserving its order.
func ReadRanked(path string) ([]RankedRow, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(header) != len(rankedHeader) {
		return nil, fmt.Errorf("%s: unexpected header width %d (want %d)", path, len(header), len(rankedHeader))
	}

	out := make([]RankedRow, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(rankedHeader) {
			continue
		}
		rank, err0 := parseInt(row[0])
		lat, err1 := parseFloat(row[2])
		lng, err2 := parseFloat(row[3])
		stars, err3 := parseFloat(row[5])
		volume, err4 := parseFloat(row[6])
		sentiment, err5 := parseFloat(row[7])
		score, err6 := parseFloat(row[8])
		if err0 != nil || err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			continue
		}
		out = append(out, RankedRow{
			Rank:      rank,
			Name:      row[1],
			Lat:       lat,
			Lng:       lng,
			Providers: row[4],
			Stars:     stars,
			Volume:    volume,
			Sentiment: sentiment,
			Score:     score,
		})
	}
	return out, nil
}

var sentimentHeader = []string{
	"canonical_name", "neg", "neu", "pos", "compound", "scored",
}

// WriteSentiments writes the per-brand sentiment CSV. scores must be parallel
// to brands.
func WriteSentiments(path string, brands []model.CanonicalBrand, scores []model.SentimentScore) error {
	rows := make([][]string, 0, len(brands))
	for i, b := range brands {
		if i >= len(scores) {
			break
		}
		s := scores[i]
		scored := "false"
		if s.Scored {
			scored = "true"
		}
		rows = append(rows, []string{
			b.Name,
			formatFloat(s.Negative),
			formatFloat(s.Neutral),
			formatFloat(s.Positive),
			formatFloat(s.Compound),
			scored,
		})
	}
	return writeCSV(path, sentimentHeader, rows)
}
