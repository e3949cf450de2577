// Package console hosts band plots behind a service registry and serves
// them over HTTP and WebSocket.
package console

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/panyam/bandplot/bands"
	"github.com/panyam/bandplot/loader"
	"github.com/panyam/bandplot/viz"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PlotEntry is one hosted plot. Its mutex serializes every call into the
// engine.
type PlotEntry struct {
	mu      sync.Mutex
	plot    *bands.BandPlot
	frame   *viz.FrameRenderer
	svg     *viz.SVGRenderer
	sources []string
}

// PlotInfo summarizes a plot for listings.
type PlotInfo struct {
	ID       string   `json:"id"`
	Sources  []string `json:"sources,omitempty"`
	Datasets int      `json:"datasets"`
	Path     string   `json:"path"`
	Extent   float64  `json:"extent"`
	YLabel   string   `json:"yLabel"`
}

// PathResult is returned by path changes. Warnings name points missing
// from every dataset, with a suggestion when one is close.
type PathResult struct {
	Changed  bool      `json:"changed"`
	Path     string    `json:"path"`
	Warnings []string  `json:"warnings,omitempty"`
	Frame    viz.Frame `json:"frame"`
}

// PointsInfo backs the path editor: valid names, the default path and the
// helper text shown next to it.
type PointsInfo struct {
	Names       []string `json:"names"`
	DefaultPath string   `json:"defaultPath"`
	Help        string   `json:"help"`
}

// PlotService is the registry of hosted plots.
type PlotService struct {
	loader  *loader.Loader
	hub     *Hub
	palette []string
	yLabel  string
	svgConf viz.PlotConfig

	store      map[string]*PlotEntry
	storeMutex sync.RWMutex
}

// ServiceOption configures a PlotService.
type ServiceOption func(*PlotService)

// WithHub pushes every redrawn frame to the hub.
func WithHub(h *Hub) ServiceOption { return func(s *PlotService) { s.hub = h } }

// WithPalette sets the dataset color rotation of new plots.
func WithPalette(p []string) ServiceOption { return func(s *PlotService) { s.palette = p } }

// WithYLabel sets the fallback y label of new plots.
func WithYLabel(l string) ServiceOption { return func(s *PlotService) { s.yLabel = l } }

func NewPlotService(l *loader.Loader, opts ...ServiceOption) *PlotService {
	if l == nil {
		l = loader.New()
	}
	out := &PlotService{
		loader:  l,
		svgConf: viz.DefaultPlotConfig(),
		store:   map[string]*PlotEntry{},
	}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

func (s *PlotService) newEntry(id string, sources []string) *PlotEntry {
	e := &PlotEntry{
		frame:   viz.NewFrameRenderer(),
		svg:     viz.NewSVGRenderer(s.svgConf, id),
		sources: sources,
	}
	if s.hub != nil {
		hub := s.hub
		e.frame.OnRedraw = func(f viz.Frame) {
			data, err := json.Marshal(f)
			if err != nil {
				slog.Error("frame encode failed", "plot", id, "error", err)
				return
			}
			hub.Publish(id, data)
		}
	}
	e.plot = bands.New(id,
		bands.WithRenderer(viz.Fanout{e.frame, e.svg}),
		bands.WithPalette(s.palette),
		bands.WithYLabel(s.yLabel))
	return e
}

func (e *PlotEntry) info() PlotInfo {
	return PlotInfo{
		ID:       e.plot.ID(),
		Sources:  e.sources,
		Datasets: len(e.plot.Datasets()),
		Path:     e.plot.CurrentPath().String(),
		Extent:   e.plot.Extent(),
		YLabel:   e.plot.YLabel(),
	}
}

// CreatePlot loads sources and renders the plot with its default path.
func (s *PlotService) CreatePlot(ctx context.Context, id string, sources []string) (*PlotInfo, error) {
	slog.Info("CreatePlot Request", "id", id, "sources", sources)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "Provide a plot id")
	}
	if s.exists(id) {
		return nil, status.Errorf(codes.AlreadyExists, "Plot %q already exists", id)
	}

	datasets, err := s.loader.LoadAll(ctx, sources)
	if err != nil {
		return nil, loadError(err)
	}

	e := s.newEntry(id, append([]string(nil), sources...))
	for _, ds := range datasets {
		if err := e.plot.AddDataset(ds); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	if _, err := e.plot.Render(nil, false); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.storeMutex.Lock()
	defer s.storeMutex.Unlock()
	if s.store[id] != nil {
		return nil, status.Errorf(codes.AlreadyExists, "Plot %q already exists", id)
	}
	s.store[id] = e
	info := e.info()
	return &info, nil
}

func (s *PlotService) exists(id string) bool {
	s.storeMutex.RLock()
	defer s.storeMutex.RUnlock()
	return s.store[id] != nil
}

func (s *PlotService) DeletePlot(ctx context.Context, id string) error {
	slog.Info("DeletePlot Request", "id", id)
	s.storeMutex.Lock()
	defer s.storeMutex.Unlock()
	if s.store[id] == nil {
		return status.Errorf(codes.NotFound, "Plot %q not found", id)
	}
	delete(s.store, id)
	if s.hub != nil {
		s.hub.ClosePlot(id)
	}
	return nil
}

// ListPlots returns every plot ordered by id.
func (s *PlotService) ListPlots(ctx context.Context) []PlotInfo {
	s.storeMutex.RLock()
	entries := make([]*PlotEntry, 0, len(s.store))
	for _, e := range s.store {
		entries = append(entries, e)
	}
	s.storeMutex.RUnlock()

	out := make([]PlotInfo, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.info())
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *PlotService) withPlot(id string, callback func(*PlotEntry) error) error {
	s.storeMutex.RLock()
	e := s.store[id]
	s.storeMutex.RUnlock()
	if e == nil {
		slog.Error("Plot not found", "id", id)
		return status.Errorf(codes.NotFound, "Plot %q not found", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return callback(e)
}

func (s *PlotService) GetPlot(ctx context.Context, id string) (info *PlotInfo, err error) {
	err = s.withPlot(id, func(e *PlotEntry) error {
		i := e.info()
		info = &i
		return nil
	})
	return
}

// AddDataset appends one dataset and redraws the current path. color, when
// not empty, is the base color its triple is derived from.
func (s *PlotService) AddDataset(ctx context.Context, id string, ds *bands.Dataset, color string) (frame *viz.Frame, err error) {
	slog.Info("AddDataset Request", "id", id, "color", color)
	if ds == nil {
		return nil, status.Error(codes.InvalidArgument, "Dataset payload cannot be nil")
	}
	err = s.withPlot(id, func(e *PlotEntry) error {
		var opts []bands.DatasetOption
		if color != "" {
			opts = append(opts, bands.WithBaseColor(color))
		}
		if err := e.plot.AddDataset(ds, opts...); err != nil {
			return status.Error(codes.InvalidArgument, err.Error())
		}
		return e.refresh(&frame)
	})
	return
}

// LoadDatasets fetches sources and appends them in source order.
func (s *PlotService) LoadDatasets(ctx context.Context, id string, sources []string) (frame *viz.Frame, err error) {
	slog.Info("LoadDatasets Request", "id", id, "sources", sources)
	if !s.exists(id) {
		return nil, status.Errorf(codes.NotFound, "Plot %q not found", id)
	}
	datasets, err := s.loader.LoadAll(ctx, sources)
	if err != nil {
		return nil, loadError(err)
	}
	err = s.withPlot(id, func(e *PlotEntry) error {
		for _, ds := range datasets {
			if err := e.plot.AddDataset(ds); err != nil {
				return status.Error(codes.InvalidArgument, err.Error())
			}
		}
		e.sources = append(e.sources, sources...)
		return e.refresh(&frame)
	})
	return
}

// refresh redraws after new data: the first time with the default path,
// afterwards the current path forced.
func (e *PlotEntry) refresh(frame **viz.Frame) error {
	var err error
	if e.plot.Rendered() && len(e.plot.CurrentPath()) > 0 {
		_, err = e.plot.Render(e.plot.CurrentPath(), true)
	} else {
		_, err = e.plot.ResetPath()
	}
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	f := e.frame.Frame()
	*frame = &f
	return nil
}

// SetPath parses text and redraws unless it equals the current path and
// force is false.
func (s *PlotService) SetPath(ctx context.Context, id, text string, force bool) (result *PathResult, err error) {
	slog.Info("SetPath Request", "id", id, "path", text, "force", force)
	path := bands.PathFromText(text)
	err = s.withPlot(id, func(e *PlotEntry) error {
		changed, err := e.plot.Render(path, force)
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		result = &PathResult{
			Changed:  changed,
			Path:     bands.TextFromPath(path),
			Warnings: bands.SuggestionMessages(bands.UnknownPoints(path, e.plot.PointNames())),
			Frame:    e.frame.Frame(),
		}
		return nil
	})
	return
}

// ResetPath redraws the default path, even when it is already shown.
func (s *PlotService) ResetPath(ctx context.Context, id string) (result *PathResult, err error) {
	slog.Info("ResetPath Request", "id", id)
	err = s.withPlot(id, func(e *PlotEntry) error {
		changed, err := e.plot.ResetPath()
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		result = &PathResult{Changed: changed, Path: e.plot.CurrentPath().String(), Frame: e.frame.Frame()}
		return nil
	})
	return
}

func (s *PlotService) SetYLimit(ctx context.Context, id string, min, max float64) (frame *viz.Frame, err error) {
	slog.Info("SetYLimit Request", "id", id, "min", min, "max", max)
	if min >= max {
		return nil, status.Errorf(codes.InvalidArgument, "y limit min %g must be below max %g", min, max)
	}
	err = s.withPlot(id, func(e *PlotEntry) error {
		if !e.plot.Rendered() {
			return status.Error(codes.FailedPrecondition, "Plot has not been rendered yet")
		}
		if err := e.plot.SetYLimit(min, max); err != nil {
			return status.Error(codes.FailedPrecondition, err.Error())
		}
		f := e.frame.Frame()
		frame = &f
		return nil
	})
	return
}

func (s *PlotService) SetZoomMode(ctx context.Context, id, mode string) (frame *viz.Frame, err error) {
	slog.Info("SetZoomMode Request", "id", id, "mode", mode)
	zm, err := bands.ParseZoomMode(mode)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	err = s.withPlot(id, func(e *PlotEntry) error {
		if err := e.plot.SetZoomMode(zm); err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		f := e.frame.Frame()
		frame = &f
		return nil
	})
	return
}

func (s *PlotService) Frame(ctx context.Context, id string) (frame *viz.Frame, err error) {
	err = s.withPlot(id, func(e *PlotEntry) error {
		f := e.frame.Frame()
		frame = &f
		return nil
	})
	return
}

func (s *PlotService) Points(ctx context.Context, id string) (info *PointsInfo, err error) {
	err = s.withPlot(id, func(e *PlotEntry) error {
		names := e.plot.PointNames()
		info = &PointsInfo{
			Names:       names,
			DefaultPath: e.plot.DefaultPath().String(),
			Help:        bands.HelpText(names),
		}
		return nil
	})
	return
}

// SVG returns the document of the last redraw.
func (s *PlotService) SVG(ctx context.Context, id string) (svg string, err error) {
	err = s.withPlot(id, func(e *PlotEntry) error {
		svg = e.svg.SVG()
		return nil
	})
	return
}

func loadError(err error) error {
	var se *loader.SourceError
	if errors.As(err, &se) && se.Op == "fetch" {
		return status.Error(codes.Unavailable, err.Error())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.InvalidArgument, err.Error())
}
