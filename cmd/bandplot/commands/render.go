package commands

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/panyam/bandplot/bands"
	"github.com/panyam/bandplot/viz"
)

var (
	renderPath   string
	renderOut    string
	renderFormat string
	renderTitle  string
	renderColors []string
	renderYMin   float64
	renderYMax   float64
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render SOURCE...",
	Short: "Render datasets along a path to SVG or JSON",
	Long: `Render one or more band-structure datasets (files or http(s) URLs)
along a path. Without --path the first dataset's own path is used.

Examples:
  bandplot render si.json --out si.svg
  bandplot render si.json si-soc.json --path "GAMMA-X|K-GAMMA" --colors "#000000,#e41a1c"
  bandplot render si.json --format json --ymin -5 --ymax 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, err := loadDatasets(cmd.Context(), args)
		if err != nil {
			return err
		}

		conf := viz.DefaultPlotConfig()
		conf.Width, conf.Height = renderWidth, renderHeight
		svg := viz.NewSVGRenderer(conf, renderTitle)
		frame := viz.NewFrameRenderer()
		plot := bands.New("cli",
			bands.WithRenderer(viz.Fanout{svg, frame}),
			bands.WithPalette(cfg.Plot.Palette),
			bands.WithYLabel(cfg.Plot.YLabel))

		for i, ds := range datasets {
			var opts []bands.DatasetOption
			if i < len(renderColors) && renderColors[i] != "" {
				opts = append(opts, bands.WithBaseColor(renderColors[i]))
			}
			if err := plot.AddDataset(ds, opts...); err != nil {
				return fmt.Errorf("%s: %w", args[i], err)
			}
		}

		var path bands.Path
		if renderPath != "" {
			path = bands.PathFromText(renderPath)
			for _, msg := range bands.SuggestionMessages(bands.UnknownPoints(path, plot.PointNames())) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", msg)
			}
		}
		if _, err := plot.Render(path, true); err != nil {
			return err
		}
		if cmd.Flags().Changed("ymin") || cmd.Flags().Changed("ymax") {
			if err := plot.SetYLimit(renderYMin, renderYMax); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if renderOut != "" && renderOut != "-" {
			f, err := os.Create(renderOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return writeRendered(out, renderFormat, svg, frame)
	},
}

func writeRendered(w io.Writer, format string, svg *viz.SVGRenderer, frame *viz.FrameRenderer) error {
	switch format {
	case "svg":
		_, err := svg.WriteTo(w)
		return err
	case "json":
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(frame.Frame())
	default:
		return fmt.Errorf("unknown format %q (want svg or json)", format)
	}
}

func init() {
	renderCmd.Flags().StringVarP(&renderPath, "path", "p", "", "Path text, e.g. GAMMA-X-M|K-GAMMA")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (default: stdout)")
	renderCmd.Flags().StringVar(&renderFormat, "format", "svg", "Output format: svg or json")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Chart title")
	renderCmd.Flags().StringSliceVar(&renderColors, "colors", nil, "Base color per dataset, in source order")
	renderCmd.Flags().Float64Var(&renderYMin, "ymin", -10, "Lower energy limit")
	renderCmd.Flags().Float64Var(&renderYMax, "ymax", 10, "Upper energy limit")
	renderCmd.Flags().IntVar(&renderWidth, "width", 800, "Image width")
	renderCmd.Flags().IntVar(&renderHeight, "height", 500, "Image height")
	rootCmd.AddCommand(renderCmd)
}
