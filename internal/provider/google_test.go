package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brewrank/brewrank/internal/cache"
	"github.com/brewrank/brewrank/internal/model"
)

func testSearch() model.SearchConfig {
	return model.SearchConfig{
		Location:     "Tulsa, OK",
		Center:       model.Coordinates{Lat: 36.15398, Lng: -95.99277},
		RadiusMeters: 15000,
		Keyword:      "coffee",
		MaxPages:     4,
	}
}

func googlePage(places string, nextToken string) string {
	token := ""
	if nextToken != "" {
		token = fmt.Sprintf(`,"next_page_token":%q`, nextToken)
	}
	return fmt.Sprintf(`{"status":"OK","results":[%s]%s}`, places, token)
}

func TestGoogle_Paginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pagetoken") {
		case "":
			if r.URL.Query().Get("keyword") != "coffee" {
				t.Errorf("missing keyword param")
			}
			fmt.Fprint(w, googlePage(`{"place_id":"a","name":"Blue Dome Coffee","rating":4.7,"user_ratings_total":812,"geometry":{"location":{"lat":36.154,"lng":-95.985}},"vicinity":"324 E 2nd St"}`, "tok-2"))
		case "tok-2":
			fmt.Fprint(w, googlePage(`{"place_id":"b","name":"Hilltop Roasters","rating":4.4,"user_ratings_total":120,"price_level":2,"geometry":{"location":{"lat":36.101,"lng":-95.970}},"vicinity":"11 S Peoria Ave"}`, ""))
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pagetoken"))
		}
	}))
	defer srv.Close()

	g := NewGoogle(NewClient(testHTTPConfig(), nil, 0), "test-key")
	g.baseURL = srv.URL
	g.pageWait = 0

	records, err := g.Search(context.Background(), testSearch())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records across pages, got %d", len(records))
	}
	if records[0].Name != "Blue Dome Coffee" || records[0].ProviderID != "a" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].PriceTier != "$$" {
		t.Errorf("expected price_level 2 to map to $$, got %q", records[1].PriceTier)
	}
	for _, r := range records {
		if r.Provider != model.ProviderGoogle {
			t.Errorf("wrong provenance: %q", r.Provider)
		}
	}
}

func TestGoogle_DedupesOnPlaceID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Same place twice in one page, plus an entry with no place_id.
		fmt.Fprint(w, googlePage(
			`{"place_id":"a","name":"Blue Dome Coffee","geometry":{"location":{"lat":36.154,"lng":-95.985}}},`+
				`{"place_id":"a","name":"Blue Dome Coffee","geometry":{"location":{"lat":36.154,"lng":-95.985}}},`+
				`{"name":"Ghost Entry"}`, ""))
	}))
	defer srv.Close()

	g := NewGoogle(NewClient(testHTTPConfig(), nil, 0), "test-key")
	g.baseURL = srv.URL
	g.pageWait = 0

	records, err := g.Search(context.Background(), testSearch())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after place_id de-dupe, got %d", len(records))
	}
}

func TestGoogle_StopsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`)
	}))
	defer srv.Close()

	g := NewGoogle(NewClient(testHTTPConfig(), nil, 0), "bad-key")
	g.baseURL = srv.URL
	g.pageWait = 0

	records, err := g.Search(context.Background(), testSearch())
	if err != nil {
		t.Fatalf("error status should be a warning, not an error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestGoogle_ErrorStatusNotCached(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Quota failures arrive as HTTP 200 with an in-body status.
			fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT","error_message":"You have exceeded your daily request quota."}`)
			return
		}
		fmt.Fprint(w, googlePage(`{"place_id":"a","name":"Blue Dome Coffee","geometry":{"location":{"lat":36.154,"lng":-95.985}}}`, ""))
	}))
	defer srv.Close()

	g := NewGoogle(NewClient(testHTTPConfig(), cache.NewMemoryCache(time.Minute), time.Minute), "test-key")
	g.baseURL = srv.URL
	g.pageWait = 0

	records, err := g.Search(context.Background(), testSearch())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records while over quota, got %d", len(records))
	}

	// The error payload must not be served from cache once the quota recovers.
	records, err = g.Search(context.Background(), testSearch())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected the second search to hit the network, got %d calls", calls)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after quota recovery, got %d", len(records))
	}
}

func TestGoogle_PageBound(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Always hand back another token; pagination must still terminate.
		fmt.Fprint(w, googlePage(fmt.Sprintf(`{"place_id":"p%d","name":"Shop %d","geometry":{"location":{"lat":36.1,"lng":-95.9}}}`, calls, calls), "tok-next"))
	}))
	defer srv.Close()

	g := NewGoogle(NewClient(testHTTPConfig(), nil, 0), "test-key")
	g.baseURL = srv.URL
	g.pageWait = 0

	q := testSearch()
	q.MaxPages = 3
	if _, err := g.Search(context.Background(), q); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected pagination bounded at 3 pages, got %d", calls)
	}
}
