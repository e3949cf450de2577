package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/bandplot/bands"
	"github.com/panyam/bandplot/config"
)

// The shipped samples must stay loadable and renderable.
func TestExampleDatasets(t *testing.T) {
	cfg, err := config.Load("../examples/bandplot.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Plots, 2)

	l := New(WithBaseDir("../examples"))
	for _, p := range cfg.Plots {
		datasets, err := l.LoadAll(context.Background(), p.Sources)
		require.NoError(t, err, p.ID)

		plot := bands.New(p.ID)
		for _, ds := range datasets {
			require.NoError(t, plot.AddDataset(ds))
		}
		var path bands.Path
		if p.Path != "" {
			path = bands.PathFromText(p.Path)
		}
		changed, err := plot.Render(path, false)
		require.NoError(t, err)
		assert.True(t, changed, p.ID)
		assert.NotEmpty(t, plot.Series(), p.ID)
		assert.Empty(t, bands.UnknownPoints(plot.CurrentPath(), plot.PointNames()), p.ID)
	}
}

func TestExampleLabelFormats(t *testing.T) {
	l := New(WithBaseDir("../examples"))
	si, err := l.Load(context.Background(), "silicon/si.json")
	require.NoError(t, err)
	gr, err := l.Load(context.Background(), "graphene/graphene.json")
	require.NoError(t, err)

	assert.Equal(t, bands.FormatSeekPath, bands.NewPrettifier([]*bands.Dataset{si}).Format)
	assert.Equal(t, bands.FormatLegacy, bands.NewPrettifier([]*bands.Dataset{gr}).Format)
}
