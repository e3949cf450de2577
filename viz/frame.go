package viz

import (
	"sync"

	"github.com/panyam/bandplot/bands"
)

// Zoom describes the interactive zoom/pan state a browser chart applies.
type Zoom struct {
	Mode bands.ZoomMode `json:"mode"`
	Drag bool           `json:"drag"`
	Pan  bool           `json:"pan"`
}

// Frame is the JSON document a browser chart draws from.
type Frame struct {
	Version int           `json:"version"`
	Series  []bands.Curve `json:"series"`
	Ticks   []bands.Tick  `json:"ticks"`
	XMin    float64       `json:"xMin"`
	XMax    float64       `json:"xMax"`
	YMin    *float64      `json:"yMin,omitempty"`
	YMax    *float64      `json:"yMax,omitempty"`
	YLabel  string        `json:"yLabel"`
	Zoom    Zoom          `json:"zoom"`
}

// FrameRenderer is a bands.Renderer producing Frames. OnRedraw, when set,
// receives every new frame.
type FrameRenderer struct {
	chartState
	OnRedraw func(Frame)

	mu    sync.RWMutex
	zoom  Zoom
	frame Frame
}

func NewFrameRenderer() *FrameRenderer {
	return &FrameRenderer{zoom: Zoom{Mode: bands.ZoomY, Drag: true}}
}

func (r *FrameRenderer) SetZoomMode(mode bands.ZoomMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zoom.Mode = mode
	r.zoom.Drag = mode != bands.ZoomNone
}

func (r *FrameRenderer) SetPan(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zoom.Pan = enabled
}

func (r *FrameRenderer) Redraw() error {
	r.mu.Lock()
	f := Frame{
		Version: r.frame.Version + 1,
		Series:  r.chart.Series,
		Ticks:   r.chart.Ticks,
		XMin:    r.chart.XMin,
		XMax:    r.chart.XMax,
		YLabel:  r.chart.YLabel,
		Zoom:    r.zoom,
	}
	if r.chart.YFixed {
		ymin, ymax := r.chart.YMin, r.chart.YMax
		f.YMin, f.YMax = &ymin, &ymax
	}
	r.frame = f
	cb := r.OnRedraw
	r.mu.Unlock()

	if cb != nil {
		cb(f)
	}
	return nil
}

// Frame returns the last redrawn frame; Version is 0 before the first one.
func (r *FrameRenderer) Frame() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

var (
	_ bands.Renderer       = (*FrameRenderer)(nil)
	_ bands.ZoomController = (*FrameRenderer)(nil)
)
