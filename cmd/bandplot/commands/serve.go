package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/panyam/bandplot/config"
	"github.com/panyam/bandplot/console"
)

var (
	serveHost string
	servePort int
)

// Serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve plots over HTTP with live WebSocket updates",
	Long: `Start the plot server. Plots listed in the config file are loaded at
startup; more can be created through the API.

The server provides:
- REST API under /api/plots for creating plots and changing paths
- SVG snapshots at /api/plots/{id}/svg
- WebSocket frame streams at /api/plots/{id}/live

Example:
  bandplot serve --config bandplot.yaml
  bandplot serve --port 9090
  curl -X PUT localhost:9090/api/plots/si/path -d '{"path": "GAMMA-X|K-GAMMA"}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		l, closeLoader, err := newLoader()
		if err != nil {
			return err
		}
		defer closeLoader()

		hub := console.NewHub()
		defer hub.Close()
		svc := console.NewPlotService(l,
			console.WithHub(hub),
			console.WithPalette(cfg.Plot.Palette),
			console.WithYLabel(cfg.Plot.YLabel))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := preloadPlots(ctx, svc, cfg.Plots); err != nil {
			return err
		}

		addr := cfg.Server.Addr()
		server := &http.Server{
			Addr:              addr,
			Handler:           console.NewWebServer(svc, hub).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bandplot %s serving on http://%s/api/plots\n", Version, addr)

		errChan := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
			close(errChan)
		}()

		select {
		case err := <-errChan:
			return err
		case <-ctx.Done():
		}

		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		slog.Info("Server stopped gracefully")
		return nil
	},
}

// preloadPlots creates the configured plots concurrently and applies
// their paths. Any failure aborts startup.
func preloadPlots(ctx context.Context, svc *console.PlotService, plots []config.PlotPreload) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range plots {
		g.Go(func() error {
			if _, err := svc.CreatePlot(ctx, p.ID, p.Sources); err != nil {
				return fmt.Errorf("plot %q: %w", p.ID, err)
			}
			if p.Path == "" {
				return nil
			}
			res, err := svc.SetPath(ctx, p.ID, p.Path, false)
			if err != nil {
				return fmt.Errorf("plot %q: %w", p.ID, err)
			}
			for _, w := range res.Warnings {
				slog.Warn("preloaded path", "plot", p.ID, "warning", w)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(plots) > 0 {
		slog.Info("Preloaded plots", "count", len(plots))
	}
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Server host (default: config or BANDPLOT_HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Server port (default: config or BANDPLOT_PORT)")
	rootCmd.AddCommand(serveCmd)
}
