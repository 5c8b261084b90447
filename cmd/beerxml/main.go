// Package main implements the beerxml command line tool, which renders and
// inspects BeerXML recipes from local files or URLs.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/config"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/fetch"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

type displayFlags struct {
	metric       bool
	metricHops   bool
	download     bool
	style        bool
	mash         bool
	misc         bool
	fermentation bool
}

func (f displayFlags) options(source string) render.Options {
	return render.Options{
		Source:       source,
		Metric:       f.metric,
		MetricHops:   f.metricHops,
		Download:     f.download,
		Style:        f.style,
		Mash:         f.mash,
		Misc:         f.misc,
		Fermentation: f.fermentation,
	}
}

func bindDisplayFlags(cmd *cobra.Command, f *displayFlags, defaults render.Options) {
	cmd.Flags().BoolVar(&f.metric, "metric", defaults.Metric, "show metric units")
	cmd.Flags().BoolVar(&f.metricHops, "mhop", defaults.MetricHops, "show hop amounts in metric units")
	cmd.Flags().BoolVar(&f.download, "download", defaults.Download, "include the download link")
	cmd.Flags().BoolVar(&f.style, "style", defaults.Style, "include style ranges")
	cmd.Flags().BoolVar(&f.mash, "mash", defaults.Mash, "include the mash profile")
	cmd.Flags().BoolVar(&f.misc, "misc", defaults.Misc, "include miscellaneous ingredients")
	cmd.Flags().BoolVar(&f.fermentation, "fermentation", defaults.Fermentation, "include fermentation stages")
}

// readSource loads a document from an http(s) URL or a local path.
func readSource(ctx context.Context, cfg config.Config, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch.New(cfg.FetchTimeout, cfg.FetchMaxBytes).Fetch(ctx, source)
	}
	b, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return b, nil
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "beerxml",
		Short:         "Render and inspect BeerXML recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(cfg), newInspectCmd(cfg))
	return root
}

func commandContext(cmd *cobra.Command, cfg config.Config) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, cfg.FetchTimeout+5*time.Second)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLoggerWith(os.Stderr, obs.ParseLevel(getLogLevel(cfg)))
	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// getLogLevel keeps the CLI quiet unless a level is configured explicitly.
func getLogLevel(cfg config.Config) string {
	if os.Getenv("LOG_LEVEL") == "" {
		return "warn"
	}
	return cfg.LogLevel
}
