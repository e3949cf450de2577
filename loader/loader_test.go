package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/panyam/bandplot/bands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siliconDoc = `{
  "Y_label": "E - E_F (eV)",
  "path": [["GAMMA", "X"], ["X", "M"]],
  "paths": [
    {"from": "GAMMA", "to": "X", "x": [0, 1], "values": [[-1, 0], [1, 2]]},
    {"from": "M", "to": "X", "x": [0, 0.5, 1], "values": [[0, 0.5, 1]], "two_band_types": true}
  ]
}`

const secondDoc = `{"path": [["GAMMA", "X"]], "paths": [{"from": "GAMMA", "to": "X", "x": [0, 2], "values": [[3, 4]]}]}`

func TestDecode(t *testing.T) {
	ds, err := Decode([]byte(siliconDoc))
	require.NoError(t, err)
	assert.Equal(t, "E - E_F (eV)", ds.YLabel)
	assert.Equal(t, "GAMMA-X-M", ds.Path.String())
	require.Len(t, ds.Paths, 2)
	assert.True(t, ds.Paths[1].TwoBandTypes)
	assert.Equal(t, []float64{0, 0.5, 1}, ds.Paths[1].X)

	_, err = Decode([]byte(`{"path": [["GAMMA"]]}`))
	assert.Error(t, err)
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "si.json"), []byte(siliconDoc), 0o644))

	l := New(WithBaseDir(dir))
	ds, err := l.Load(context.Background(), "si.json")
	require.NoError(t, err)
	assert.Len(t, ds.Paths, 2)

	_, err = l.Load(context.Background(), "missing.json")
	var se *SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "fetch", se.Op)
}

func TestLoadRejectsLengthMismatch(t *testing.T) {
	fs := NewMemoryFS()
	fs.WriteFile("bad", []byte(`{"path": [], "paths": [{"from": "A", "to": "B", "x": [0, 1], "values": [[1]]}]}`))

	_, err := NewWithFS(fs).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bands.ErrLengthMismatch))
}

func TestLoadAllKeepsSourceOrder(t *testing.T) {
	fs := NewMemoryFS()
	fs.WriteFile("a", []byte(siliconDoc))
	fs.WriteFile("b", []byte(secondDoc))

	got, err := NewWithFS(fs).LoadAll(context.Background(), []string{"b", "a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Len(t, got[0].Paths, 1)
	assert.Len(t, got[1].Paths, 2)
	assert.Len(t, got[2].Paths, 1)

	_, err = NewWithFS(fs).LoadAll(context.Background(), []string{"a", "nope"})
	assert.Error(t, err)
}

func TestRemoteSourcesAreCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(secondDoc))
	}))
	defer srv.Close()

	cache, err := OpenPebbleCache(t.TempDir(), 1<<20)
	require.NoError(t, err)
	defer cache.Close()

	l := New(WithHTTPClient(srv.Client()), WithCache(cache))
	for range 2 {
		ds, err := l.Load(context.Background(), srv.URL+"/si.json")
		require.NoError(t, err)
		assert.Len(t, ds.Paths, 1)
	}
	assert.Equal(t, int32(1), hits.Load())

	cached, ok := cache.Get(CacheKey(srv.URL + "/si.json"))
	require.True(t, ok)
	assert.JSONEq(t, secondDoc, string(cached))
}

func TestRemoteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cache := NewMemoryCache()
	_, err := New(WithCache(cache)).Load(context.Background(), srv.URL+"/gone.json")
	require.Error(t, err)
	_, ok := cache.Get(CacheKey(srv.URL + "/gone.json"))
	assert.False(t, ok)
}

func TestCompositeFSPrefixes(t *testing.T) {
	a, b := NewMemoryFS(), NewMemoryFS()
	a.WriteFile("mem://x", []byte("a"))
	b.WriteFile("mem://deep/x", []byte("b"))

	fs := NewCompositeFS()
	fs.Mount("mem://", a)
	fs.Mount("mem://deep/", b)

	got, err := fs.ReadFile(context.Background(), "mem://deep/x")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))

	_, err = fs.ReadFile(context.Background(), "other")
	assert.Error(t, err)

	assert.True(t, IsRemote("https://example.org/a.json"))
	assert.False(t, IsRemote("a.json"))
}
