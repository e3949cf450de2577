// Package viz renders assembled band plots: SVG documents for files and
// the CLI, and JSON frames for browser clients.
package viz

import "github.com/panyam/bandplot/bands"

// --- Common Data Structures ---

// Chart is everything a backend needs to draw one band plot.
type Chart struct {
	Series []bands.Curve
	Ticks  []bands.Tick
	XMin   float64
	XMax   float64
	// YFixed pins the y axis to [YMin, YMax]; otherwise it fits the data.
	YFixed bool
	YMin   float64
	YMax   float64
	YLabel string
	Title  string
}

// --- Interfaces for Generators ---

// Plotter turns a chart into a document.
type Plotter interface {
	Generate(chart Chart) (string, error)
}

// chartState implements the data half of bands.Renderer and is embedded by
// the concrete renderers.
type chartState struct {
	chart Chart
}

func (s *chartState) Init(series []bands.Curve, ticks []bands.Tick) error {
	s.chart.Series = series
	s.chart.Ticks = ticks
	return nil
}

func (s *chartState) SetData(series []bands.Curve) { s.chart.Series = series }

func (s *chartState) SetTicks(ticks []bands.Tick) { s.chart.Ticks = ticks }

func (s *chartState) SetXRange(min, max float64) {
	s.chart.XMin, s.chart.XMax = min, max
}

func (s *chartState) SetYRange(min, max float64) {
	s.chart.YFixed = true
	s.chart.YMin, s.chart.YMax = min, max
}

func (s *chartState) SetYLabel(label string) { s.chart.YLabel = label }
