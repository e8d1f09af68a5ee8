package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/model"
)

const googleNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// googlePageWait is how long a next_page_token takes to become valid server
// side. Requesting the next page sooner returns INVALID_REQUEST.
const googlePageWait = 2 * time.Second

// Google queries the Google Places Nearby Search API.
type Google struct {
	client   *Client
	apiKey   string
	baseURL  string
	pageWait time.Duration
}

// NewGoogle creates the Google Places provider.
func NewGoogle(client *Client, apiKey string) *Google {
	return &Google{
		client:   client,
		apiKey:   apiKey,
		baseURL:  googleNearbyURL,
		pageWait: googlePageWait,
	}
}

// Name implements Provider.
func (g *Google) Name() string { return model.ProviderGoogle }

type googleSearchResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
	Results       []googlePlace `json:"results"`
	NextPageToken string        `json:"next_page_token"`
}

type googlePlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       int      `json:"price_level"`
	Vicinity         string   `json:"vicinity"`
	Types            []string `json:"types"`
	BusinessStatus   string   `json:"business_status"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Search implements Provider. Nearby Search pages are fetched via
// next_page_token, bounded by the configured page count. Results are de-duped
// on place_id since Google occasionally repeats entries across pages.
func (g *Google) Search(ctx context.Context, q model.SearchConfig) ([]model.ShopRecord, error) {
	params := url.Values{}
	params.Set("keyword", q.Keyword)
	params.Set("radius", fmt.Sprintf("%d", q.RadiusMeters))
	params.Set("location", fmt.Sprintf("%f,%f", q.Center.Lat, q.Center.Lng))
	params.Set("key", g.apiKey)
	reqURL := g.baseURL + "?" + params.Encode()

	var records []model.ShopRecord
	seen := make(map[string]bool)

	for page := 0; page < q.MaxPages; page++ {
		var resp googleSearchResponse
		if err := g.client.GetJSON(ctx, g.Name(), reqURL, nil, &resp); err != nil {
			return records, fmt.Errorf("google nearby search: %w", err)
		}

		if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
			log.WithFields(log.Fields{
				"status": resp.Status,
				"error":  resp.ErrorMessage,
			}).Warn("google places returned non-OK status, stopping pagination")
			// OVER_QUERY_LIMIT and REQUEST_DENIED arrive as HTTP 200, so the
			// client has already cached the error payload. Drop it, or the
			// next run replays the failure until the TTL expires.
			g.client.Uncache(g.Name(), reqURL)
			break
		}

		for _, r := range resp.Results {
			if r.PlaceID == "" || seen[r.PlaceID] {
				continue
			}
			seen[r.PlaceID] = true
			records = append(records, googleRecord(r))
		}

		if resp.NextPageToken == "" {
			break
		}

		select {
		case <-ctx.Done():
			return records, ctx.Err()
		case <-time.After(g.pageWait):
		}

		next := url.Values{}
		next.Set("pagetoken", resp.NextPageToken)
		next.Set("key", g.apiKey)
		reqURL = g.baseURL + "?" + next.Encode()
	}

	log.WithFields(log.Fields{"provider": g.Name(), "records": len(records)}).Info("collection complete")
	return records, nil
}

func googleRecord(r googlePlace) model.ShopRecord {
	return model.ShopRecord{
		Provider:    model.ProviderGoogle,
		ProviderID:  r.PlaceID,
		Name:        r.Name,
		Address:     r.Vicinity,
		Coordinates: model.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Rating:      r.Rating,
		ReviewCount: r.UserRatingsTotal,
		PriceTier:   strings.Repeat("$", r.PriceLevel),
		Categories:  r.Types,
		URL:         "",
	}
}
