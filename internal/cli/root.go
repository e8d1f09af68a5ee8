package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/brewrank/brewrank/internal/model"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
	outDir  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "brewrank",
	Short: "Brewrank - discover and rank local coffee shops",
	Long: `Brewrank pulls coffee shop listings from Google Places and Yelp,
merges duplicate listings into canonical shops, scores review sentiment,
and ranks everything by a weighted blend of stars, review volume, and
sentiment.

Typical workflow:
  brewrank collect            # fetch listings into data/raw/
  brewrank analyze            # merge, score, rank, render charts
  brewrank serve              # browse the results on a local dashboard

API keys are read from the environment (or a .env file in the working
directory): GOOGLE_PLACES_API_KEY and YELP_API_KEY.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brewrank v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.brewrank/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&outDir, "outdir", "", "base data directory (default: data/)")

	rootCmd.AddCommand(versionCmd)
}

// initConfig wires the configuration hierarchy: flags > BREWRANK_* env vars >
// config file > built-in defaults. Defaults are seeded into viper up front so
// every key is visible to AutomaticEnv.
func initConfig() {
	// A .env in the working directory supplies API keys during development.
	// Missing files are fine; real deployments export the variables.
	_ = godotenv.Load()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding default config: %v\n", err)
		return
	}
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewReader(defaults)); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding default config: %v\n", err)
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".brewrank"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match BREWRANK_*
	viper.SetEnvPrefix("BREWRANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the merged viper state into the typed config.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Output.Verbose = verbose
	if outDir != "" {
		cfg.Output.RawDir = filepath.Join(outDir, "raw")
		cfg.Output.InterimDir = filepath.Join(outDir, "interim")
		cfg.Output.OutputsDir = filepath.Join(outDir, "outputs")
	}
	return cfg, nil
}
