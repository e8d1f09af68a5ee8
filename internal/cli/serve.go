package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brewrank/brewrank/internal/pipeline"
	"github.com/brewrank/brewrank/internal/render"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Long: `Serve starts a local web server over the analyze outputs: a map of the
top-ranked shops, sortable tables, and live charts. The CSVs are re-read
on every request, so re-running analyze refreshes the page.

Example:
  brewrank serve
  brewrank serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	d, err := render.NewDashboard(p.RankedPath(), p.CanonicalPath())
	if err != nil {
		return err
	}
	return d.Serve(cfg.Serve.Addr)
}
