package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brewrank/brewrank/internal/pipeline"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch coffee shop listings from the provider APIs",
	Long: `Collect queries every configured provider (Google Places, Yelp Fusion)
for coffee shops around the configured location and writes one raw CSV
per provider under data/raw/.

Credentials come from the environment: GOOGLE_PLACES_API_KEY and
YELP_API_KEY. Collect fails up front if a requested provider has no key.

Example:
  brewrank collect
  brewrank collect --location "Portland, OR" --lat 45.5152 --lng -122.6784
  brewrank collect --providers yelp --include-reviews`,
	RunE: runCollect,
}

var noCache bool

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().String("location", "", "free-form location for Yelp (e.g. \"Tulsa, OK\")")
	collectCmd.Flags().Float64("lat", 0, "search center latitude for Google")
	collectCmd.Flags().Float64("lng", 0, "search center longitude for Google")
	collectCmd.Flags().Int("radius", 0, "search radius in meters")
	collectCmd.Flags().String("keyword", "", "search keyword")
	collectCmd.Flags().StringSlice("providers", nil, "providers to query (google, yelp)")
	collectCmd.Flags().Int("max-pages", 0, "max result pages per provider")
	collectCmd.Flags().Bool("include-reviews", false, "also fetch Yelp review excerpts (one extra request per business)")
	collectCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the API response cache (force fresh fetches)")

	_ = viper.BindPFlag("search.location", collectCmd.Flags().Lookup("location"))
	_ = viper.BindPFlag("search.center.lat", collectCmd.Flags().Lookup("lat"))
	_ = viper.BindPFlag("search.center.lng", collectCmd.Flags().Lookup("lng"))
	_ = viper.BindPFlag("search.radius_meters", collectCmd.Flags().Lookup("radius"))
	_ = viper.BindPFlag("search.keyword", collectCmd.Flags().Lookup("keyword"))
	_ = viper.BindPFlag("search.providers", collectCmd.Flags().Lookup("providers"))
	_ = viper.BindPFlag("search.max_pages", collectCmd.Flags().Lookup("max-pages"))
	_ = viper.BindPFlag("search.include_reviews", collectCmd.Flags().Lookup("include-reviews"))
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Search.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pipeline.New(cfg).Collect(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			return fmt.Errorf("collect interrupted")
		}
		return err
	}

	fmt.Printf("✓ Raw listings written to %s\n", cfg.Output.RawDir)
	fmt.Printf("\nNext step:\n  brewrank analyze\n")
	return nil
}
