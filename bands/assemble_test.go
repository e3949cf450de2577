package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoDatasets builds A with G->M stored forward and B with M->G stored
// backwards, with x offsets and different lengths.
func twoDatasets() []*Dataset {
	a := &Dataset{
		Path: Path{seg("G", "M")},
		Paths: []Segment{{
			From: "G", To: "M",
			X:      []float64{0, 1, 2},
			Values: [][]float64{{1, 2, 3}, {4, 5, 6}},
		}},
	}
	b := &Dataset{
		Path: Path{seg("M", "G")},
		Paths: []Segment{{
			From: "M", To: "G",
			X:      []float64{5, 7, 9},
			Values: [][]float64{{10, 20, 30}},
		}},
	}
	return []*Dataset{a, b}
}

var testColors = []ColorTriple{{"#a", "#a-up", "#a-down"}, {"#b", "#b-up", "#b-down"}}

func TestResolve(t *testing.T) {
	segs := []Segment{{From: "G", To: "X"}, {From: "M", To: "G"}, {From: "G", To: "M"}}

	m, ok := Resolve(seg("G", "X"), segs)
	require.True(t, ok)
	assert.Same(t, &segs[0], m.Segment)
	assert.False(t, m.Reversed)

	m, ok = Resolve(seg("G", "M"), segs)
	require.True(t, ok)
	assert.Same(t, &segs[1], m.Segment, "first match wins even when reversed")
	assert.True(t, m.Reversed)

	_, ok = Resolve(seg("K", "L"), segs)
	assert.False(t, ok)
}

func TestRenderSegmentReversedAndScaled(t *testing.T) {
	ds := twoDatasets()[1]
	m, ok := Resolve(seg("G", "M"), ds.Paths)
	require.True(t, ok)
	require.True(t, m.Reversed)
	assert.Equal(t, 4.0, m.Length())

	curves := RenderSegment(m, seg("G", "M"), testColors[1], 1, 2, 10)
	require.Len(t, curves, 1)
	assert.Equal(t, "G-M.0", curves[0].Label)
	assert.Equal(t, "#b", curves[0].Color)
	assert.Equal(t, 1, curves[0].Dataset)
	assert.Equal(t, []Point{{10, 30}, {11, 20}, {12, 10}}, curves[0].Points)
	assert.Equal(t, []float64{5, 7, 9}, ds.Paths[0].X, "stored data is not modified")
	assert.Equal(t, []float64{10, 20, 30}, ds.Paths[0].Values[0])
}

func TestRenderSegmentSpinColors(t *testing.T) {
	s := Segment{
		From: "G", To: "X", TwoBandTypes: true,
		X:      []float64{0, 1},
		Values: [][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}},
	}
	curves := RenderSegment(Match{Segment: &s}, seg("G", "X"), testColors[0], 0, 0, 0)
	require.Len(t, curves, 5)
	colors := []string{}
	for _, c := range curves {
		colors = append(colors, c.Color)
	}
	assert.Equal(t, []string{"#a-up", "#a-up", "#a-up", "#a-down", "#a-down"}, colors)
}

func TestRenderSegmentDegenerate(t *testing.T) {
	single := Segment{From: "G", To: "X", X: []float64{3}, Values: [][]float64{{1}}}
	assert.Empty(t, RenderSegment(Match{Segment: &single}, seg("G", "X"), testColors[0], 0, 0, 0))

	empty := Segment{From: "G", To: "X"}
	assert.Empty(t, RenderSegment(Match{Segment: &empty}, seg("G", "X"), testColors[0], 0, 2, 0))
}

func TestAssembleAlignsDatasets(t *testing.T) {
	asm := Assemble(Path{seg("G", "M")}, twoDatasets(), testColors)

	assert.Len(t, asm.Series, 3)
	assert.Equal(t, 2.0, asm.Extent)
	assert.Equal(t, []Tick{{0, "G"}, {2, "M"}}, asm.Ticks)

	fromB := asm.Series[2]
	assert.Equal(t, 1, fromB.Dataset)
	assert.Equal(t, []Point{{0, 30}, {1, 20}, {2, 10}}, fromB.Points)
}

func TestAssembleMissingSegments(t *testing.T) {
	asm := Assemble(Path{seg("X", "Y"), seg("Y", "Z")}, twoDatasets(), testColors)

	assert.Empty(t, asm.Series)
	assert.InDelta(t, 0.2, asm.Extent, 1e-12)
	require.Len(t, asm.Ticks, 3)
	assert.Equal(t, "X", asm.Ticks[0].Label)
	assert.Equal(t, 0.0, asm.Ticks[0].Position)
	assert.Equal(t, "Y", asm.Ticks[1].Label)
	assert.InDelta(t, 0.1, asm.Ticks[1].Position, 1e-12)
	assert.Equal(t, "Z", asm.Ticks[2].Label)
	assert.InDelta(t, 0.2, asm.Ticks[2].Position, 1e-12)
}

func TestAssembleDiscontinuityMergesTick(t *testing.T) {
	path := ParsePath("G-M|X-Y")
	asm := Assemble(path, twoDatasets(), testColors)

	assert.Equal(t, []string{"G", "M|X", "Y"}, tickLabels(asm.Ticks))
	assert.InDelta(t, 2.1, asm.Extent, 1e-12)
	assert.Equal(t, 2.0, asm.Ticks[1].Position)
}

func TestAssembleZeroLengthSegment(t *testing.T) {
	ds := []*Dataset{{Paths: []Segment{{From: "G", To: "X", X: []float64{1}, Values: [][]float64{{0}}}}}}
	asm := Assemble(Path{seg("G", "X")}, ds, testColors[:1])

	assert.Empty(t, asm.Series)
	assert.InDelta(t, EmptySegmentGap, asm.Extent, 1e-12)
}

func TestAssembleFirstNonzeroFixesTarget(t *testing.T) {
	ds := []*Dataset{
		{Paths: []Segment{{From: "G", To: "X", X: []float64{1, 1}, Values: [][]float64{{0, 0}}}}},
		{Paths: []Segment{{From: "G", To: "X", X: []float64{0, 3}, Values: [][]float64{{0, 1}}}}},
		{Paths: []Segment{{From: "X", To: "G", X: []float64{0, 1}, Values: [][]float64{{5, 6}}}}},
	}
	colors := []ColorTriple{testColors[0], testColors[1], testColors[0]}
	asm := Assemble(Path{seg("G", "X"), seg("X", "G")}, ds, colors)

	require.Len(t, asm.Series, 4)
	assert.Equal(t, []Point{{0, 0}, {3, 1}}, asm.Series[0].Points)
	assert.Equal(t, []Point{{0, 6}, {3, 5}}, asm.Series[1].Points, "rescaled from 1 to 3")
	assert.Equal(t, 6.0, asm.Extent)
}

func TestAssembleEmptyPath(t *testing.T) {
	asm := Assemble(Path{}, twoDatasets(), testColors)
	assert.Empty(t, asm.Series)
	assert.Empty(t, asm.Ticks)
	assert.Equal(t, 0.0, asm.Extent)
}

func tickLabels(ticks []Tick) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = t.Label
	}
	return out
}
