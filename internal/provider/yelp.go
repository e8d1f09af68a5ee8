package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/model"
)

const (
	yelpSearchURL = "https://api.yelp.com/v3/businesses/search"
	// yelpMaxRadius is the Fusion API's radius cap (~40km).
	yelpMaxRadius = 40000
	// yelpPageLimit is the maximum businesses per search page.
	yelpPageLimit = 50
	// yelpCategories restricts the search to coffee-adjacent businesses.
	yelpCategories = "coffee,coffeeroasteries,cafes"
)

// Yelp queries the Yelp Fusion API.
type Yelp struct {
	client  *Client
	apiKey  string
	baseURL string
}

// NewYelp creates the Yelp Fusion provider.
func NewYelp(client *Client, apiKey string) *Yelp {
	return &Yelp{
		client:  client,
		apiKey:  apiKey,
		baseURL: yelpSearchURL,
	}
}

// Name implements Provider.
func (y *Yelp) Name() string { return model.ProviderYelp }

type yelpSearchResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
	Total      int            `json:"total"`
}

type yelpBusiness struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Price       string  `json:"price"`
	Phone       string  `json:"display_phone"`
	URL         string  `json:"url"`
	Categories  []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

type yelpReviewsResponse struct {
	Reviews []struct {
		Text        string  `json:"text"`
		Rating      float64 `json:"rating"`
		TimeCreated string  `json:"time_created"`
	} `json:"reviews"`
}

// Search implements Provider. Yelp pages with limit/offset; pagination stops
// at the configured page bound or the first empty page. When IncludeReviews
// is set, up to three review excerpts are fetched per business.
func (y *Yelp) Search(ctx context.Context, q model.SearchConfig) ([]model.ShopRecord, error) {
	radius := q.RadiusMeters
	if radius > yelpMaxRadius {
		radius = yelpMaxRadius
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+y.apiKey)

	var records []model.ShopRecord
	seen := make(map[string]bool)

	for page := 0; page < q.MaxPages; page++ {
		params := url.Values{}
		params.Set("term", q.Keyword)
		params.Set("location", q.Location)
		params.Set("radius", fmt.Sprintf("%d", radius))
		params.Set("limit", fmt.Sprintf("%d", yelpPageLimit))
		params.Set("offset", fmt.Sprintf("%d", page*yelpPageLimit))
		params.Set("categories", yelpCategories)

		var resp yelpSearchResponse
		if err := y.client.GetJSON(ctx, y.Name(), y.baseURL+"?"+params.Encode(), header, &resp); err != nil {
			return records, fmt.Errorf("yelp search: %w", err)
		}

		if len(resp.Businesses) == 0 {
			break
		}

		for _, b := range resp.Businesses {
			if b.ID == "" || seen[b.ID] {
				continue
			}
			seen[b.ID] = true

			rec := yelpRecord(b)
			if q.IncludeReviews {
				reviews, err := y.fetchReviews(ctx, header, b.ID)
				if err != nil {
					log.WithError(err).WithField("business", b.ID).Warn("skipping reviews")
				} else {
					rec.Reviews = reviews
				}
			}
			records = append(records, rec)
		}
	}

	log.WithFields(log.Fields{"provider": y.Name(), "records": len(records)}).Info("collection complete")
	return records, nil
}

func (y *Yelp) fetchReviews(ctx context.Context, header http.Header, businessID string) ([]model.Review, error) {
	reqURL := strings.TrimSuffix(y.baseURL, "/search") + "/" + url.PathEscape(businessID) + "/reviews"

	var resp yelpReviewsResponse
	if err := y.client.GetJSON(ctx, y.Name(), reqURL, header, &resp); err != nil {
		return nil, err
	}

	n := len(resp.Reviews)
	if n > 3 {
		n = 3
	}
	reviews := make([]model.Review, 0, n)
	for _, r := range resp.Reviews[:n] {
		reviews = append(reviews, model.Review{
			Text:      r.Text,
			Rating:    r.Rating,
			CreatedAt: r.TimeCreated,
		})
	}
	return reviews, nil
}

func yelpRecord(b yelpBusiness) model.ShopRecord {
	var cats []string
	for _, c := range b.Categories {
		if c.Title != "" {
			cats = append(cats, c.Title)
		}
	}

	return model.ShopRecord{
		Provider:    model.ProviderYelp,
		ProviderID:  b.ID,
		Name:        b.Name,
		Address:     strings.Join(b.Location.DisplayAddress, " "),
		Coordinates: model.Coordinates{Lat: b.Coordinates.Latitude, Lng: b.Coordinates.Longitude},
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		PriceTier:   b.Price,
		Categories:  cats,
		URL:         b.URL,
	}
}
