package bands

import (
	"fmt"
	"log/slog"
)

// DefaultYLabel is shown when the first dataset carries no label.
const DefaultYLabel = "Electronic bands (eV)"

// Renderer is the chart backend a BandPlot drives. Init is called once,
// on the first successful redraw; later redraws replace data and ticks in
// place. Nothing is drawn until Redraw.
type Renderer interface {
	Init(series []Curve, ticks []Tick) error
	SetData(series []Curve)
	SetTicks(ticks []Tick)
	SetXRange(min, max float64)
	SetYRange(min, max float64)
	SetYLabel(label string)
	Redraw() error
}

// ZoomMode selects which axes drag-to-zoom acts on.
type ZoomMode string

const (
	ZoomY    ZoomMode = "y"
	ZoomX    ZoomMode = "x"
	ZoomXY   ZoomMode = "xy"
	ZoomNone ZoomMode = "none"
)

func ParseZoomMode(s string) (ZoomMode, error) {
	switch m := ZoomMode(s); m {
	case ZoomY, ZoomX, ZoomXY, ZoomNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown zoom mode %q", s)
}

// ZoomController is implemented by renderers with zoom and pan support.
type ZoomController interface {
	SetZoomMode(mode ZoomMode)
	SetPan(enabled bool)
}

// BandPlot holds the state of one plot: the datasets shown in it, their
// colors, and the series and ticks of the last redraw. It is not safe for
// concurrent use.
type BandPlot struct {
	id          string
	yLabel      string
	renderer    Renderer
	assigner    *ColorAssigner
	datasets    []*Dataset
	colors      []ColorTriple
	series      []Curve
	ticks       []Tick
	extent      float64
	currentPath Path
	rendered    bool
	initialized bool
}

// Option configures a BandPlot.
type Option func(*BandPlot)

// WithRenderer attaches the chart backend.
func WithRenderer(r Renderer) Option {
	return func(p *BandPlot) { p.renderer = r }
}

// WithPalette replaces the default dataset color rotation.
func WithPalette(palette []string) Option {
	return func(p *BandPlot) { p.assigner = NewColorAssigner(palette) }
}

// WithYLabel replaces DefaultYLabel as the fallback label.
func WithYLabel(label string) Option {
	return func(p *BandPlot) {
		if label != "" {
			p.yLabel = label
		}
	}
}

// New creates an empty plot. The id names the plot to its owner; the
// plot itself does not use it beyond logging.
func New(id string, opts ...Option) *BandPlot {
	p := &BandPlot{
		id:          id,
		yLabel:      DefaultYLabel,
		assigner:    NewColorAssigner(nil),
		currentPath: Path{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type datasetOptions struct {
	colors    *ColorTriple
	baseColor string
}

// DatasetOption customizes how a dataset is colored.
type DatasetOption func(*datasetOptions)

// WithColors uses the given triple as is.
func WithColors(c ColorTriple) DatasetOption {
	return func(o *datasetOptions) { o.colors = &c }
}

// WithBaseColor derives the triple from a single hex color.
func WithBaseColor(hex string) DatasetOption {
	return func(o *datasetOptions) { o.baseColor = hex }
}

// AddDataset appends a dataset and its colors. The plot is not redrawn;
// call Render afterwards.
func (p *BandPlot) AddDataset(ds *Dataset, opts ...DatasetOption) error {
	if ds == nil {
		return fmt.Errorf("nil dataset")
	}
	if err := ds.Validate(); err != nil {
		return err
	}
	var o datasetOptions
	for _, opt := range opts {
		opt(&o)
	}
	var colors ColorTriple
	if o.colors != nil {
		colors = *o.colors
	} else {
		var err error
		if colors, err = p.assigner.Assign(o.baseColor, len(p.colors)); err != nil {
			return err
		}
	}
	p.datasets = append(p.datasets, ds)
	p.colors = append(p.colors, colors)
	slog.Debug("dataset added", "plot", p.id, "index", len(p.datasets)-1, "segments", len(ds.Paths), "colors", colors)
	return nil
}

// DefaultPath is the path of the first dataset, or an empty path.
func (p *BandPlot) DefaultPath() Path {
	if len(p.datasets) == 0 {
		return Path{}
	}
	return p.datasets[0].Path.Clone()
}

// Render lays out path (the default path when nil) and redraws. If the
// path equals the last rendered one and force is false nothing happens
// and false is returned.
func (p *BandPlot) Render(path Path, force bool) (bool, error) {
	if path == nil {
		path = p.DefaultPath()
	}
	if path.Equal(p.currentPath) && !force {
		return false, nil
	}
	p.currentPath = path.Clone()

	asm := Assemble(p.currentPath, p.datasets, p.colors)
	p.series = asm.Series
	p.ticks = asm.Ticks
	p.extent = asm.Extent
	p.rendered = true
	slog.Debug("plot assembled", "plot", p.id, "path", p.currentPath.String(),
		"curves", len(p.series), "ticks", len(p.ticks), "extent", p.extent)

	if p.renderer == nil {
		return true, nil
	}
	ticks := p.DisplayTicks()
	if !p.initialized {
		if err := p.renderer.Init(p.series, ticks); err != nil {
			return true, fmt.Errorf("init renderer: %w", err)
		}
		p.initialized = true
	} else {
		p.renderer.SetData(p.series)
		p.renderer.SetTicks(ticks)
	}
	p.renderer.SetXRange(0, p.extent)
	p.renderer.SetYLabel(p.YLabel())
	if err := p.renderer.Redraw(); err != nil {
		return true, fmt.Errorf("redraw: %w", err)
	}
	return true, nil
}

// ResetPath forces a redraw with the default path.
func (p *BandPlot) ResetPath() (bool, error) {
	return p.Render(p.DefaultPath(), true)
}

// SetYLimit fixes the visible energy window.
func (p *BandPlot) SetYLimit(min, max float64) error {
	if min >= max {
		return fmt.Errorf("y limit min %g must be below max %g", min, max)
	}
	if p.renderer == nil || !p.initialized {
		return fmt.Errorf("plot %q has not been rendered yet", p.id)
	}
	p.renderer.SetYRange(min, max)
	return p.renderer.Redraw()
}

// SetZoomMode forwards to renderers that support zooming.
func (p *BandPlot) SetZoomMode(mode ZoomMode) error {
	zc, ok := p.renderer.(ZoomController)
	if !ok {
		return fmt.Errorf("renderer of plot %q does not support zoom", p.id)
	}
	zc.SetZoomMode(mode)
	zc.SetPan(mode != ZoomNone)
	if !p.initialized {
		return nil
	}
	return p.renderer.Redraw()
}

// YLabel is the first dataset's label, else the plot's fallback
// (DefaultYLabel unless WithYLabel was given).
func (p *BandPlot) YLabel() string {
	if len(p.datasets) > 0 && p.datasets[0].YLabel != "" {
		return p.datasets[0].YLabel
	}
	return p.yLabel
}

// DisplayTicks returns the ticks with prettified labels.
func (p *BandPlot) DisplayTicks() []Tick {
	return NewPrettifier(p.datasets).Ticks(p.ticks)
}

func (p *BandPlot) ID() string { return p.id }

func (p *BandPlot) Datasets() []*Dataset { return p.datasets }

func (p *BandPlot) Colors() []ColorTriple { return p.colors }

// Series returns the curves of the last redraw.
func (p *BandPlot) Series() []Curve { return p.series }

// Ticks returns the raw tick labels of the last redraw.
func (p *BandPlot) Ticks() []Tick { return p.ticks }

// Extent is the x length of the last rendered path.
func (p *BandPlot) Extent() float64 { return p.extent }

func (p *BandPlot) CurrentPath() Path { return p.currentPath.Clone() }

func (p *BandPlot) PointNames() []string { return ValidPointNames(p.datasets) }

func (p *BandPlot) Renderer() Renderer { return p.renderer }

// Rendered reports whether any redraw has run.
func (p *BandPlot) Rendered() bool { return p.rendered }
