// Package render produces the presentation artifacts: static PNG charts, the
// review word cloud, an interactive chart page, and the dashboard server.
package render

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/psykhi/wordclouds"
	log "github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/brewrank/brewrank/internal/store"
)

// wordCloudTop is how many distinct words the clouds display.
const wordCloudTop = 120

// Charts renders the static outputs of the analyze stage.
type Charts struct {
	outDir   string
	topN     int
	fontFile string
}

// NewCharts creates a renderer writing into outDir. fontFile is the TTF used
// for the PNG word cloud; when empty or missing the cloud is skipped.
func NewCharts(outDir string, topN int, fontFile string) *Charts {
	return &Charts{outDir: outDir, topN: topN, fontFile: fontFile}
}

// RenderAll writes every static artifact for the ranked rows: the two bar
// charts, the word cloud (reviews permitting), and the interactive chart page.
func (c *Charts) RenderAll(rows []store.RankedRow, reviewText string) error {
	if err := os.MkdirAll(c.outDir, 0755); err != nil {
		return fmt.Errorf("create outputs dir: %w", err)
	}

	top := rows
	if c.topN > 0 && len(top) > c.topN {
		top = top[:c.topN]
	}

	if err := c.renderBars(top); err != nil {
		return err
	}

	words := CountWords(reviewText, wordCloudTop)
	if err := c.renderWordCloud(words); err != nil {
		return err
	}

	return c.renderHTML(top, words)
}

func (c *Charts) renderBars(top []store.RankedRow) error {
	if len(top) == 0 {
		log.Warn("no ranked rows, skipping bar charts")
		return nil
	}

	stars := make([]chart.Value, 0, len(top))
	volume := make([]chart.Value, 0, len(top))
	for _, r := range top {
		stars = append(stars, chart.Value{Value: r.Stars, Label: r.Name})
		volume = append(volume, chart.Value{Value: r.Volume, Label: r.Name})
	}

	if err := c.renderBarPNG("top_stars.png", fmt.Sprintf("Top %d by Stars", len(top)), stars); err != nil {
		return err
	}
	return c.renderBarPNG("top_volume.png", fmt.Sprintf("Top %d by Review Volume", len(top)), volume)
}

func (c *Charts) renderBarPNG(name, title string, bars []chart.Value) error {
	graph := chart.BarChart{
		Title:    title,
		Height:   512,
		Width:    1024,
		BarWidth: 40,
		Bars:     bars,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
	}

	path := filepath.Join(c.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	log.WithField("path", path).Info("wrote chart")
	return f.Close()
}

func (c *Charts) renderWordCloud(words []WordCount) error {
	if len(words) == 0 {
		log.Warn("no review text, skipping word cloud")
		return nil
	}
	if c.fontFile == "" {
		log.Warn("no font configured (output.font_file), skipping word cloud")
		return nil
	}
	if _, err := os.Stat(c.fontFile); err != nil {
		log.WithField("font", c.fontFile).Warn("font file not found, skipping word cloud")
		return nil
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w.Word] = w.Count
	}

	cloud := wordclouds.NewWordcloud(counts,
		wordclouds.FontFile(c.fontFile),
		wordclouds.Width(1200),
		wordclouds.Height(800),
		wordclouds.FontMaxSize(96),
		wordclouds.FontMinSize(12),
		wordclouds.BackgroundColor(color.White),
		wordclouds.Colors([]color.Color{
			color.RGBA{R: 0x4e, G: 0x34, B: 0x2e, A: 0xff},
			color.RGBA{R: 0x8b, G: 0x5e, B: 0x3c, A: 0xff},
			color.RGBA{R: 0xc8, G: 0x95, B: 0x6d, A: 0xff},
			color.RGBA{R: 0x2f, G: 0x6f, B: 0x4f, A: 0xff},
		}),
	)

	path := filepath.Join(c.outDir, "reviews_wordcloud.png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, cloud.Draw()); err != nil {
		return fmt.Errorf("encode word cloud: %w", err)
	}
	log.WithField("path", path).Info("wrote word cloud")
	return f.Close()
}

func (c *Charts) renderHTML(top []store.RankedRow, words []WordCount) error {
	page := components.NewPage()
	page.PageTitle = "brewrank charts"

	if len(top) > 0 {
		page.AddCharts(
			barChart("Top by Stars", top, func(r store.RankedRow) float64 { return r.Stars }),
			barChart("Top by Review Volume", top, func(r store.RankedRow) float64 { return r.Volume }),
		)
	}
	if len(words) > 0 {
		page.AddCharts(wordCloudChart(words))
	}

	path := filepath.Join(c.outDir, "charts.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	log.WithField("path", path).Info("wrote chart page")
	return f.Close()
}

func barChart(title string, top []store.RankedRow, value func(store.RankedRow) float64) *echarts.Bar {
	names := make([]string, 0, len(top))
	data := make([]opts.BarData, 0, len(top))
	for _, r := range top {
		names = append(names, r.Name)
		data = append(data, opts.BarData{Value: value(r)})
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Show: opts.Bool(true)}}),
	)
	bar.SetXAxis(names).AddSeries(title, data)
	return bar
}

func wordCloudChart(words []WordCount) *echarts.WordCloud {
	data := make([]opts.WordCloudData, 0, len(words))
	for _, w := range words {
		data = append(data, opts.WordCloudData{Name: w.Word, Value: w.Count})
	}

	wc := echarts.NewWordCloud()
	wc.SetGlobalOptions(echarts.WithTitleOpts(opts.Title{Title: "Review Word Cloud"}))
	wc.AddSeries("reviews", data, echarts.WithWorldCloudChartOpts(opts.WordCloudChart{
		SizeRange: []float32{14, 80},
	}))
	return wc
}
