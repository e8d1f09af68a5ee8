package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Dashboard serves the interactive view over the analyze outputs: a map of
// the top picks, ranked and canonical tables, and a live chart page. CSVs are
// re-read on every request, so re-running analyze refreshes the dashboard
// without a restart.
type Dashboard struct {
	rankedPath    string
	canonicalPath string
	tmpl          *template.Template
}

// NewDashboard creates a dashboard over the given CSV paths.
func NewDashboard(rankedPath, canonicalPath string) (*Dashboard, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Dashboard{
		rankedPath:    rankedPath,
		canonicalPath: canonicalPath,
		tmpl:          tmpl,
	}, nil
}

// Handler returns the dashboard routes.
func (d *Dashboard) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", d.handleIndex)
	mux.HandleFunc("/charts", d.handleCharts)
	return mux
}

// Serve blocks serving the dashboard on addr.
func (d *Dashboard) Serve(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      d.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.WithField("addr", addr).Info("dashboard listening")
	return srv.ListenAndServe()
}

type mapPoint struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Stars float64 `json:"stars"`
	Score float64 `json:"score"`
}

type dashboardData struct {
	MinStars  float64
	ShowN     int
	Rows      []store.RankedRow
	Brands    []store.BrandRow
	MapPoints template.JS
	Generated string
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	minStars := queryFloat(r, "min_stars", 4.0)
	showN := queryInt(r, "show", 15)

	ranked, err := store.ReadRanked(d.rankedPath)
	if err != nil {
		log.WithError(err).Error("failed to load ranked CSV")
		http.Error(w, "Ranked data not found. Run `brewrank analyze` first.", http.StatusServiceUnavailable)
		return
	}

	view := filterRanked(ranked, minStars, showN)

	brands, err := store.ReadBrands(d.canonicalPath)
	if err != nil {
		// The canonical table is supplementary; the dashboard still works.
		log.WithError(err).Warn("failed to load canonical CSV")
	}
	if len(brands) > 100 {
		brands = brands[:100]
	}

	points := make([]mapPoint, 0, len(view))
	for _, row := range view {
		points = append(points, mapPoint{
			Name: row.Name, Lat: row.Lat, Lng: row.Lng,
			Stars: row.Stars, Score: row.Score,
		})
	}
	encoded, err := json.Marshal(points)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := dashboardData{
		MinStars:  minStars,
		ShowN:     showN,
		Rows:      view,
		Brands:    brands,
		MapPoints: template.JS(encoded),
		Generated: time.Now().Format(time.RFC1123),
	}

	if err := d.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.WithError(err).Error("template error")
	}
}

func (d *Dashboard) handleCharts(w http.ResponseWriter, r *http.Request) {
	ranked, err := store.ReadRanked(d.rankedPath)
	if err != nil {
		http.Error(w, "Ranked data not found. Run `brewrank analyze` first.", http.StatusServiceUnavailable)
		return
	}

	view := filterRanked(ranked, queryFloat(r, "min_stars", 0), queryInt(r, "show", 25))

	page := components.NewPage()
	page.PageTitle = "brewrank charts"
	if len(view) > 0 {
		page.AddCharts(
			barChart("Top by Stars", view, func(row store.RankedRow) float64 { return row.Stars }),
			barChart("Top by Review Volume", view, func(row store.RankedRow) float64 { return row.Volume }),
		)
	}

	if brands, err := store.ReadBrands(d.canonicalPath); err == nil {
		var texts []string
		for _, b := range brands {
			if b.ReviewText != "" {
				texts = append(texts, b.ReviewText)
			}
		}
		if words := CountWords(strings.Join(texts, " "), wordCloudTop); len(words) > 0 {
			page.AddCharts(wordCloudChart(words))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		log.WithError(err).Error("chart render error")
	}
}

func filterRanked(rows []store.RankedRow, minStars float64, showN int) []store.RankedRow {
	out := make([]store.RankedRow, 0, len(rows))
	for _, row := range rows {
		if row.Stars < minStars {
			continue
		}
		out = append(out, row)
		if showN > 0 && len(out) == showN {
			break
		}
	}
	return out
}

func queryFloat(r *http.Request, key string, def float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
