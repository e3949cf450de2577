package viz

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/panyam/bandplot/bands"
)

// PlotConfig holds styling and dimension configuration.
type PlotConfig struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	GridColor    string
	TextColor    string
	SymmetryLine string // color of the vertical lines at high-symmetry points
	LineWidth    float64
	YAxisMode    YAxisMode
}

// TemplateData contains all data needed for SVG template rendering.
type TemplateData struct {
	Config      PlotConfig
	Title       string
	YLabel      string
	InnerWidth  int
	InnerHeight int
	XTicks      []XTick
	YTicks      []YTick
	GridLines   []GridLine
	SeriesPaths []SeriesPath
}

// Helper structs for template rendering
type XTick struct {
	X     int
	Label string
}

type YTick struct {
	Y     int
	Label string
}

type GridLine struct{ X1, Y1, X2, Y2 int }

type SeriesPath struct{ Path, Color string }

// SVG template for band plots: one vertical line per high-symmetry point,
// horizontal grid from the y ticks, one path per band.
const svgTemplate = `<svg width="{{.Config.Width}}" height="{{.Config.Height}}" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <style>
      .axis { font: 12px sans-serif; fill: {{.Config.TextColor}}; }
      .axis path, .axis line { fill: none; stroke: {{.Config.TextColor}}; shape-rendering: crispEdges; }
      .grid-line { stroke: {{.Config.GridColor}}; stroke-width: 0.5px; }
      .symmetry-line { stroke: {{.Config.SymmetryLine}}; stroke-width: 1px; }
      .title { font: bold 16px sans-serif; text-anchor: middle; fill: {{.Config.TextColor}}; }
      .axis-label { font: 12px sans-serif; text-anchor: middle; fill: {{.Config.TextColor}}; }
    </style>
  </defs>

  {{if .Title}}
  <text class="title" x="{{div .Config.Width 2}}" y="20">{{.Title}}</text>
  {{end}}

  <g transform="translate({{.Config.MarginLeft}},{{.Config.MarginTop}})">
    <!-- Grid Lines -->
    {{range .GridLines}}<line class="grid-line" x1="{{.X1}}" x2="{{.X2}}" y1="{{.Y1}}" y2="{{.Y2}}"></line>{{end}}

    <!-- High-symmetry points -->
    {{range .XTicks}}<line class="symmetry-line" x1="{{.X}}" x2="{{.X}}" y1="0" y2="{{$.InnerHeight}}"></line>{{end}}

    <!-- X Axis -->
    <g class="axis" transform="translate(0,{{.InnerHeight}})">
      {{range .XTicks}}<line x1="{{.X}}" x2="{{.X}}" y1="0" y2="6"></line><text x="{{.X}}" y="20" text-anchor="middle">{{.Label}}</text>{{end}}
      <path d="M0,0H{{$.InnerWidth}}"></path>
    </g>

    <!-- Y Axis -->
    <g class="axis">
      {{range .YTicks}}<line x1="0" x2="-6" y1="{{.Y}}" y2="{{.Y}}"></line><text x="-10" y="{{add .Y 4}}" text-anchor="end">{{.Label}}</text>{{end}}
      <path d="M0,0V{{$.InnerHeight}}"></path>
      {{if .YLabel}}<text class="axis-label" transform="rotate(-90)" x="{{neg (div .InnerHeight 2)}}" y="-45">{{.YLabel}}</text>{{end}}
    </g>

    <!-- Bands -->
    {{range .SeriesPaths}}
    <path class="band" fill="none" stroke="{{.Color}}" stroke-width="{{$.Config.LineWidth}}px" d="{{.Path}}"></path>
    {{end}}
  </g>
</svg>`

// SVGPlotter implements the Plotter interface to generate SVG charts.
type SVGPlotter struct {
	config   PlotConfig
	template *template.Template
}

func NewSVGPlotter(config PlotConfig) *SVGPlotter {
	tmpl := template.Must(template.New("svg").Funcs(template.FuncMap{
		"div": func(a, b int) int { return a / b },
		"add": func(a, b int) int { return a + b },
		"neg": func(a int) int { return -a },
	}).Parse(svgTemplate))
	return &SVGPlotter{config: config, template: tmpl}
}

// DefaultPlotConfig returns sensible defaults.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Width: 800, Height: 500, MarginTop: 30, MarginRight: 30,
		MarginBottom: 40, MarginLeft: 70, GridColor: "#e5e7eb", TextColor: "#000000",
		SymmetryLine: "#9ca3af", LineWidth: 1.5, YAxisMode: YAxisTight,
	}
}

// Generate creates an SVG document for a band chart.
func (p *SVGPlotter) Generate(chart Chart) (string, error) {
	innerWidth := p.config.Width - p.config.MarginLeft - p.config.MarginRight
	innerHeight := p.config.Height - p.config.MarginTop - p.config.MarginBottom

	yExtent := [2]float64{chart.YMin, chart.YMax}
	if !chart.YFixed {
		yExtent = p.adjustValueExtent(findValueExtent(chart.Series), p.config.YAxisMode)
	}
	xScale := linearScale{domain: [2]float64{chart.XMin, chart.XMax}, rng: [2]int{0, innerWidth}}
	yScale := linearScale{domain: yExtent, rng: [2]int{innerHeight, 0}}

	seriesPaths := make([]SeriesPath, 0, len(chart.Series))
	for _, s := range chart.Series {
		if path := p.generateLinePath(s.Points, xScale, yScale); path != "" {
			seriesPaths = append(seriesPaths, SeriesPath{Path: path, Color: s.Color})
		}
	}

	templateData := TemplateData{
		Config: p.config, Title: chart.Title, YLabel: chart.YLabel,
		InnerWidth: innerWidth, InnerHeight: innerHeight,
		XTicks: p.generateXTicks(chart.Ticks, xScale), YTicks: p.generateYTicks(yScale),
		GridLines:   p.generateGridLines(yScale, innerWidth),
		SeriesPaths: seriesPaths,
	}

	var result strings.Builder
	err := p.template.Execute(&result, templateData)
	return "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" + result.String(), err
}

// --- Helper methods for SVG generation ---

type linearScale struct {
	domain [2]float64
	rng    [2]int
}

func (ls linearScale) scale(v float64) int {
	d := ls.domain[1] - ls.domain[0]
	if d == 0 {
		return ls.rng[0]
	}
	r := (v - ls.domain[0]) / d
	return ls.rng[0] + int(math.Round(r*float64(ls.rng[1]-ls.rng[0])))
}

func findValueExtent(series []bands.Curve) [2]float64 {
	y := [2]float64{math.Inf(1), math.Inf(-1)}
	for _, s := range series {
		for _, pt := range s.Points {
			y[0] = math.Min(y[0], pt.Y)
			y[1] = math.Max(y[1], pt.Y)
		}
	}
	if y[0] > y[1] {
		return [2]float64{0, 1}
	}
	return y
}

func (p *SVGPlotter) generateLinePath(data []bands.Point, xs, ys linearScale) string {
	if len(data) < 2 {
		return ""
	}
	var b strings.Builder
	for i, pt := range data {
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%d,%d", cmd, xs.scale(pt.X), ys.scale(pt.Y))
	}
	return b.String()
}

func (p *SVGPlotter) generateXTicks(ticks []bands.Tick, xs linearScale) []XTick {
	out := make([]XTick, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, XTick{X: xs.scale(t.Position), Label: t.Label})
	}
	return out
}

func (p *SVGPlotter) generateYTicks(ys linearScale) []YTick {
	var ticks []YTick
	valTicks := p.generateValueTicks(ys.domain[0], ys.domain[1], 8)
	prec := p.calculateOptimalPrecision(valTicks)
	for _, tick := range valTicks {
		ticks = append(ticks, YTick{Y: ys.scale(tick), Label: p.formatValue(tick, prec)})
	}
	return ticks
}

func (p *SVGPlotter) generateGridLines(ys linearScale, w int) []GridLine {
	var lines []GridLine
	for _, tick := range p.generateValueTicks(ys.domain[0], ys.domain[1], 8) {
		y := ys.scale(tick)
		lines = append(lines, GridLine{0, y, w, y})
	}
	return lines
}

// --- Value formatting and scaling helpers ---

type YAxisMode int

const (
	YAxisAuto YAxisMode = iota
	YAxisZeroBased
	YAxisTight
)

func (p *SVGPlotter) adjustValueExtent(extent [2]float64, mode YAxisMode) [2]float64 {
	min, max := extent[0], extent[1]
	if min == max {
		if min == 0 {
			return [2]float64{-1, 1}
		}
		padding := math.Abs(min) * 0.1
		return [2]float64{min - padding, max + padding}
	}
	if mode == YAxisTight {
		return [2]float64{min, max}
	}
	if mode == YAxisZeroBased {
		if min > 0 {
			min = 0
		}
		if max < 0 {
			max = 0
		}
	}
	padding := (max - min) * 0.05
	return [2]float64{min - padding, max + padding}
}

// generateValueTicks picks ticks on a 1/2/5 x 10^n step inside [min, max].
func (p *SVGPlotter) generateValueTicks(min, max float64, maxTicks int) []float64 {
	if min >= max {
		return []float64{min}
	}
	rawStep := (max - min) / float64(maxTicks-1)
	magnitude := math.Pow(10, math.Floor(math.Log10(rawStep)))
	var step float64
	switch normalized := rawStep / magnitude; {
	case normalized <= 1:
		step = magnitude
	case normalized <= 2:
		step = 2 * magnitude
	case normalized <= 5:
		step = 5 * magnitude
	default:
		step = 10 * magnitude
	}
	var ticks []float64
	for tick := math.Ceil(min/step) * step; tick <= max+step*1e-9; tick += step {
		ticks = append(ticks, tick)
	}
	return ticks
}

func (p *SVGPlotter) calculateOptimalPrecision(values []float64) int {
	if len(values) <= 1 {
		return 1
	}
	minDiff := math.Inf(1)
	for i := 1; i < len(values); i++ {
		if diff := math.Abs(values[i] - values[i-1]); diff > 0 && diff < minDiff {
			minDiff = diff
		}
	}
	if minDiff > 0 && !math.IsInf(minDiff, 0) {
		precision := int(math.Max(0, -math.Floor(math.Log10(minDiff))))
		if precision > 8 {
			return 8
		}
		return precision
	}
	return 2
}

func (p *SVGPlotter) formatValue(value float64, precision int) string {
	formatted := fmt.Sprintf("%.*f", precision, value)
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	}
	if formatted == "" || formatted == "-" || formatted == "-0" {
		return "0"
	}
	return formatted
}
