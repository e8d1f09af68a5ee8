package render

import (
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brewrank/brewrank/internal/model"
	"github.com/brewrank/brewrank/internal/store"
)

func writeFixtures(t *testing.T) (rankedPath, canonicalPath string) {
	t.Helper()
	dir := t.TempDir()
	rankedPath = filepath.Join(dir, "ranked.csv")
	canonicalPath = filepath.Join(dir, "canonical.csv")

	brands := []model.CanonicalBrand{
		{
			Name:        "Blue Dome Coffee",
			Address:     "311 E 2nd St",
			Coordinates: model.Coordinates{Lat: 36.1540, Lng: -95.9860},
			Members: []model.ShopRecord{
				{
					Provider: model.ProviderGoogle, ProviderID: "g1",
					Name: "Blue Dome Coffee", Rating: 4.7, ReviewCount: 820,
					Coordinates: model.Coordinates{Lat: 36.1540, Lng: -95.9860},
					Reviews:     []model.Review{{Text: "amazing espresso and friendly baristas", Rating: 5}},
				},
			},
		},
		{
			Name:        "Roast House",
			Address:     "12 S Main St",
			Coordinates: model.Coordinates{Lat: 36.1500, Lng: -95.9900},
			Members: []model.ShopRecord{
				{
					Provider: model.ProviderYelp, ProviderID: "y1",
					Name: "Roast House", Rating: 3.5, ReviewCount: 40,
					Coordinates: model.Coordinates{Lat: 36.1500, Lng: -95.9900},
				},
			},
		},
	}
	if err := store.WriteBrands(canonicalPath, brands); err != nil {
		t.Fatal(err)
	}

	entries := []model.RankedEntry{
		{Brand: brands[0], Stars: 4.7, Volume: 820, Sentiment: 0.8, Score: 0.93},
		{Brand: brands[1], Stars: 3.5, Volume: 40, Sentiment: 0.0, Score: 0.21},
	}
	if err := store.WriteRanked(rankedPath, entries); err != nil {
		t.Fatal(err)
	}
	return rankedPath, canonicalPath
}

func TestDashboardIndex(t *testing.T) {
	rankedPath, canonicalPath := writeFixtures(t)
	d, err := NewDashboard(rankedPath, canonicalPath)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	if !strings.Contains(page, "Blue Dome Coffee") {
		t.Error("top shop missing from page")
	}
	// Default min_stars of 4.0 hides the 3.5-star shop from the ranked table,
	// but it still appears in the canonical table.
	if !strings.Contains(page, "Roast House") {
		t.Error("canonical table missing low-rated shop")
	}
	if !strings.Contains(page, `"lat":36.154`) {
		t.Error("map points not embedded")
	}
}

func TestDashboardFilters(t *testing.T) {
	rankedPath, canonicalPath := writeFixtures(t)
	d, err := NewDashboard(rankedPath, canonicalPath)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/?min_stars=0&show=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	if !strings.Contains(page, "Blue Dome Coffee") {
		t.Error("expected highest-ranked shop with show=1")
	}
	if strings.Contains(page, `"name":"Roast House"`) {
		t.Error("show=1 should keep only one map point")
	}
}

func TestDashboardMissingRanked(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDashboard(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "missing2.csv"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503 before analyze has run", resp.StatusCode)
	}
}

func TestDashboardChartsPage(t *testing.T) {
	rankedPath, canonicalPath := writeFixtures(t)
	d, err := NewDashboard(rankedPath, canonicalPath)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/charts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "Top by Stars") {
		t.Error("stars chart missing")
	}
	if !strings.Contains(page, "espresso") {
		t.Error("word cloud data missing review vocabulary")
	}
}
