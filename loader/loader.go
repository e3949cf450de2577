// Package loader fetches band-structure datasets from files and URLs.
package loader

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/panyam/bandplot/bands"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Loader turns sources (file paths or http(s) URLs) into validated
// datasets.
type Loader struct {
	fs FileSystem
}

// Option configures a Loader built by New.
type Option func(*options)

type options struct {
	client  *http.Client
	cache   Cache
	baseDir string
}

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.client = c } }

// WithCache caches remote documents.
func WithCache(c Cache) Option { return func(o *options) { o.cache = c } }

// WithBaseDir resolves relative file paths against dir.
func WithBaseDir(dir string) Option { return func(o *options) { o.baseDir = dir } }

// New builds a Loader reading local files and http(s) URLs.
func New(opts ...Option) *Loader {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	remote := NewHTTPFileSystem(o.client, o.cache)
	fs := NewCompositeFS()
	fs.Mount("http://", remote)
	fs.Mount("https://", remote)
	fs.SetFallback(NewLocalFS(o.baseDir))
	return &Loader{fs: fs}
}

// NewWithFS builds a Loader over an arbitrary filesystem.
func NewWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load fetches, decodes and validates one dataset.
func (l *Loader) Load(ctx context.Context, src string) (*bands.Dataset, error) {
	data, err := l.fs.ReadFile(ctx, src)
	if err != nil {
		return nil, &SourceError{Source: src, Op: "fetch", Err: err}
	}
	slog.Debug("dataset fetched", "source", src, "size", humanize.Bytes(uint64(len(data))))

	ds, err := Decode(data)
	if err != nil {
		return nil, &SourceError{Source: src, Op: "decode", Err: err}
	}
	if err := ds.Validate(); err != nil {
		return nil, &SourceError{Source: src, Op: "validate", Err: err}
	}
	return ds, nil
}

// LoadAll fetches every source concurrently and returns the datasets in
// source order. It returns only after all fetches finished and fails with
// the first error.
func (l *Loader) LoadAll(ctx context.Context, srcs []string) ([]*bands.Dataset, error) {
	out := make([]*bands.Dataset, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			ds, err := l.Load(ctx, src)
			if err != nil {
				return err
			}
			out[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Info("datasets loaded", "count", humanize.Comma(int64(len(out))))
	return out, nil
}

// Decode parses a dataset document without validating it.
func Decode(data []byte) (*bands.Dataset, error) {
	var ds bands.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}
