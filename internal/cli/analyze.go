package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brewrank/brewrank/internal/pipeline"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Merge, score, and rank the collected listings",
	Long: `Analyze reads the raw CSVs written by collect, merges cross-provider
duplicates into canonical shops, scores review sentiment, computes the
weighted composite ranking, and renders the charts.

Outputs:
  data/interim/canonical.csv       merged shops with per-provider fields
  data/interim/reviews_scored.csv  per-shop sentiment scores
  data/interim/ranked.csv          final ranking
  data/outputs/                    bar charts, word cloud, HTML charts

Analyze is fully offline; it makes no API calls and can be re-run with
different weights against the same raw data.

Example:
  brewrank analyze
  brewrank analyze --top 20 --font /usr/share/fonts/truetype/dejavu/DejaVuSans.ttf`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int("top", 0, "how many shops the charts show")
	analyzeCmd.Flags().String("font", "", "TTF font file for the word cloud (skipped when unset)")

	_ = viper.BindPFlag("ranking.top_n", analyzeCmd.Flags().Lookup("top"))
	_ = viper.BindPFlag("output.font_file", analyzeCmd.Flags().Lookup("font"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	if err := p.Analyze(); err != nil {
		return err
	}

	fmt.Printf("✓ Ranking written: %s\n", p.RankedPath())
	fmt.Printf("✓ Charts written to %s\n", cfg.Output.OutputsDir)
	fmt.Printf("\nTo browse the results:\n  brewrank serve\n")
	return nil
}
