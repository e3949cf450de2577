package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/panyam/bandplot/bands"
	"github.com/panyam/bandplot/config"
	"github.com/panyam/bandplot/loader"
	"github.com/panyam/bandplot/logging"
)

var (
	configFile string
	logLevel   string
	prettyLogs bool
	baseDir    string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bandplot",
	Short: "Assemble and render electronic band-structure plots",
	Long: `bandplot lays out band-structure datasets along a path of
high-symmetry points and renders them as SVG, or serves them to browsers
over HTTP with live updates.

Paths are written as point names joined by "-", with "|" starting a new
independent piece, e.g. GAMMA-X-M|K-GAMMA.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		level := cfg.Logging.Level
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		lvl, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		logging.Setup(os.Stderr, lvl, prettyLogs || cfg.Logging.Pretty)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, error or off (default: config or BANDPLOT_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false, "Colored log output")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Directory relative dataset paths are resolved against")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// newLoader builds the dataset loader from the config, opening the
// dataset cache when one is configured. The returned func releases it.
func newLoader() (*loader.Loader, func(), error) {
	opts := []loader.Option{loader.WithBaseDir(baseDir)}
	closer := func() {}
	if cfg.Cache.Dir != "" {
		cache, err := loader.OpenPebbleCache(cfg.Cache.Dir, cfg.Cache.CacheBytes())
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, loader.WithCache(cache))
		closer = func() {
			if err := cache.Close(); err != nil {
				slog.Warn("closing dataset cache", "error", err)
			}
		}
	}
	return loader.New(opts...), closer, nil
}

// loadDatasets fetches every source, in order.
func loadDatasets(ctx context.Context, srcs []string) ([]*bands.Dataset, error) {
	if len(srcs) == 0 {
		return nil, fmt.Errorf("at least one dataset source is required")
	}
	l, closer, err := newLoader()
	if err != nil {
		return nil, err
	}
	defer closer()
	return l.LoadAll(ctx, srcs)
}
