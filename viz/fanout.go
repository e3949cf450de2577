package viz

import (
	"errors"

	"github.com/panyam/bandplot/bands"
)

// Fanout forwards every call to several renderers, so one plot can feed
// a browser frame and an SVG document at the same time.
type Fanout []bands.Renderer

func (f Fanout) Init(series []bands.Curve, ticks []bands.Tick) error {
	var errs []error
	for _, r := range f {
		errs = append(errs, r.Init(series, ticks))
	}
	return errors.Join(errs...)
}

func (f Fanout) SetData(series []bands.Curve) {
	for _, r := range f {
		r.SetData(series)
	}
}

func (f Fanout) SetTicks(ticks []bands.Tick) {
	for _, r := range f {
		r.SetTicks(ticks)
	}
}

func (f Fanout) SetXRange(min, max float64) {
	for _, r := range f {
		r.SetXRange(min, max)
	}
}

func (f Fanout) SetYRange(min, max float64) {
	for _, r := range f {
		r.SetYRange(min, max)
	}
}

func (f Fanout) SetYLabel(label string) {
	for _, r := range f {
		r.SetYLabel(label)
	}
}

func (f Fanout) Redraw() error {
	var errs []error
	for _, r := range f {
		errs = append(errs, r.Redraw())
	}
	return errors.Join(errs...)
}

// SetZoomMode and SetPan reach the renderers that support zooming.
func (f Fanout) SetZoomMode(mode bands.ZoomMode) {
	for _, r := range f {
		if zc, ok := r.(bands.ZoomController); ok {
			zc.SetZoomMode(mode)
		}
	}
}

func (f Fanout) SetPan(enabled bool) {
	for _, r := range f {
		if zc, ok := r.(bands.ZoomController); ok {
			zc.SetPan(enabled)
		}
	}
}
