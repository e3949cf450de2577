package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/panyam/bandplot/bands"
	"github.com/panyam/bandplot/loader"
)

const siDoc = `{
  "path": [["GAMMA", "X"], ["X", "M"]],
  "paths": [
    {"from": "GAMMA", "to": "X", "x": [0, 1], "values": [[-1, 0], [1, 2]]},
    {"from": "M", "to": "X", "x": [0, 0.5], "values": [[0, 1]]}
  ]
}`

const socDoc = `{"path": [["GAMMA", "X"]], "paths": [{"from": "GAMMA", "to": "X", "x": [0, 3], "values": [[5, 6]]}]}`

func testLoader() *loader.Loader {
	fs := loader.NewMemoryFS()
	fs.WriteFile("si.json", []byte(siDoc))
	fs.WriteFile("soc.json", []byte(socDoc))
	fs.WriteFile("broken.json", []byte(`{"paths": [{"from": "A", "to": "B", "x": [0], "values": [[1, 2]]}]}`))
	return loader.NewWithFS(fs)
}

func newTestService(t *testing.T) *PlotService {
	t.Helper()
	svc := NewPlotService(testLoader())
	_, err := svc.CreatePlot(context.Background(), "si", []string{"si.json"})
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, want codes.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, status.Code(err), err.Error())
}

func TestCreatePlot(t *testing.T) {
	ctx := context.Background()
	svc := NewPlotService(testLoader())

	info, err := svc.CreatePlot(ctx, " si ", []string{"si.json"})
	require.NoError(t, err)
	assert.Equal(t, "si", info.ID)
	assert.Equal(t, 1, info.Datasets)
	assert.Equal(t, "GAMMA-X-M", info.Path)
	assert.InDelta(t, 1.5, info.Extent, 1e-12)
	assert.Equal(t, bands.DefaultYLabel, info.YLabel)

	_, err = svc.CreatePlot(ctx, "si", nil)
	requireCode(t, codes.AlreadyExists, err)
	_, err = svc.CreatePlot(ctx, "  ", nil)
	requireCode(t, codes.InvalidArgument, err)
	_, err = svc.CreatePlot(ctx, "x", []string{"nowhere.json"})
	requireCode(t, codes.Unavailable, err)
	_, err = svc.CreatePlot(ctx, "x", []string{"broken.json"})
	requireCode(t, codes.InvalidArgument, err)

	empty, err := svc.CreatePlot(ctx, "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, "", empty.Path)

	list := svc.ListPlots(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "empty", list[0].ID)
	assert.Equal(t, "si", list[1].ID)
}

func TestSetPathRedrawGate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	frame, err := svc.Frame(ctx, "si")
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Version)
	assert.Len(t, frame.Series, 3)

	res, err := svc.SetPath(ctx, "si", "GAMMA - X - M", false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 1, res.Frame.Version)

	res, err = svc.SetPath(ctx, "si", "GAMMA-X-M", true)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 2, res.Frame.Version)

	res, err = svc.SetPath(ctx, "si", "X-GAMMA", false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "X-GAMMA", res.Path)
	assert.Len(t, res.Frame.Series, 2)
	assert.Empty(t, res.Warnings)

	res, err = svc.SetPath(ctx, "si", "GAMMA-Q", false)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `"Q"`)
	assert.Empty(t, res.Frame.Series)
	assert.InDelta(t, bands.EmptySegmentGap, res.Frame.XMax, 1e-12)

	res, err = svc.ResetPath(ctx, "si")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "GAMMA-X-M", res.Path)

	_, err = svc.SetPath(ctx, "nope", "GAMMA-X", false)
	requireCode(t, codes.NotFound, err)
}

func TestAddDatasets(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	soc, err := loader.Decode([]byte(socDoc))
	require.NoError(t, err)
	frame, err := svc.AddDataset(ctx, "si", soc, "#ff0000")
	require.NoError(t, err)
	require.Len(t, frame.Series, 4)
	assert.Equal(t, "#ff0000", frame.Series[2].Color)
	assert.Equal(t, 1, frame.Series[2].Dataset)
	// the second dataset is rescaled onto the first one's length
	assert.InDelta(t, 1.0, frame.Series[2].Points[1].X, 1e-12)

	bad := &bands.Dataset{Paths: []bands.Segment{{From: "A", To: "B", X: []float64{0, 1}, Values: [][]float64{{1}}}}}
	_, err = svc.AddDataset(ctx, "si", bad, "")
	requireCode(t, codes.InvalidArgument, err)
	_, err = svc.AddDataset(ctx, "si", soc, "not-a-color")
	requireCode(t, codes.InvalidArgument, err)

	frame, err = svc.LoadDatasets(ctx, "si", []string{"soc.json"})
	require.NoError(t, err)
	assert.Len(t, frame.Series, 5)

	info, err := svc.GetPlot(ctx, "si")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Datasets)
	assert.Equal(t, []string{"si.json", "soc.json"}, info.Sources)

	_, err = svc.LoadDatasets(ctx, "nope", []string{"soc.json"})
	requireCode(t, codes.NotFound, err)
}

func TestFirstDatasetOnEmptyPlotUsesDefaultPath(t *testing.T) {
	ctx := context.Background()
	svc := NewPlotService(testLoader())
	_, err := svc.CreatePlot(ctx, "late", nil)
	require.NoError(t, err)

	frame, err := svc.LoadDatasets(ctx, "late", []string{"si.json"})
	require.NoError(t, err)
	assert.Len(t, frame.Series, 3)
	info, err := svc.GetPlot(ctx, "late")
	require.NoError(t, err)
	assert.Equal(t, "GAMMA-X-M", info.Path)
}

func TestYLimitAndZoom(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SetYLimit(ctx, "si", 1, 0)
	requireCode(t, codes.InvalidArgument, err)
	frame, err := svc.SetYLimit(ctx, "si", -3, 3)
	require.NoError(t, err)
	require.NotNil(t, frame.YMin)
	assert.Equal(t, -3.0, *frame.YMin)
	assert.Equal(t, 3.0, *frame.YMax)

	_, err = svc.SetZoomMode(ctx, "si", "bogus")
	requireCode(t, codes.InvalidArgument, err)
	frame, err = svc.SetZoomMode(ctx, "si", "xy")
	require.NoError(t, err)
	assert.Equal(t, bands.ZoomXY, frame.Zoom.Mode)

	_, err = svc.CreatePlot(ctx, "blank", nil)
	require.NoError(t, err)
	_, err = svc.SetYLimit(ctx, "blank", -1, 1)
	requireCode(t, codes.FailedPrecondition, err)
}

func TestPointsSVGAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	points, err := svc.Points(ctx, "si")
	require.NoError(t, err)
	assert.Equal(t, []string{"GAMMA", "M", "X"}, points.Names)
	assert.Equal(t, "GAMMA-X-M", points.DefaultPath)
	assert.Contains(t, points.Help, "GAMMA, M, X")

	svg, err := svc.SVG(ctx, "si")
	require.NoError(t, err)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, ">Γ<")

	require.NoError(t, svc.DeletePlot(ctx, "si"))
	requireCode(t, codes.NotFound, svc.DeletePlot(ctx, "si"))
	_, err = svc.Frame(ctx, "si")
	requireCode(t, codes.NotFound, err)
}
