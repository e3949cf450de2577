package viz

import (
	"io"
	"sync"

	"github.com/panyam/bandplot/bands"
)

// SVGRenderer is a bands.Renderer that regenerates an SVG document on
// every redraw.
type SVGRenderer struct {
	chartState
	plotter Plotter
	title   string

	mu  sync.RWMutex
	svg string
}

func NewSVGRenderer(config PlotConfig, title string) *SVGRenderer {
	return &SVGRenderer{plotter: NewSVGPlotter(config), title: title}
}

func (r *SVGRenderer) Redraw() error {
	chart := r.chart
	chart.Title = r.title
	out, err := r.plotter.Generate(chart)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.svg = out
	r.mu.Unlock()
	return nil
}

// SVG returns the document produced by the last redraw.
func (r *SVGRenderer) SVG() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.svg
}

func (r *SVGRenderer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.SVG())
	return int64(n), err
}

var _ bands.Renderer = (*SVGRenderer)(nil)
