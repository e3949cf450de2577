package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSystem reads dataset documents from one kind of location (local
// disk, HTTP, memory).
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// CompositeFS dispatches on protocol prefixes ("https://") and falls back
// to a default filesystem for everything else.
type CompositeFS struct {
	mu          sync.RWMutex
	filesystems map[string]FileSystem
	fallback    FileSystem
}

func NewCompositeFS() *CompositeFS {
	return &CompositeFS{
		filesystems: make(map[string]FileSystem),
	}
}

func (c *CompositeFS) SetFallback(fs FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = fs
}

// Mount registers fs for paths starting with prefix. The longest matching
// prefix wins.
func (c *CompositeFS) Mount(prefix string, fs FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filesystems[prefix] = fs
}

func (c *CompositeFS) findFS(path string) FileSystem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var bestMatch string
	var bestFS FileSystem
	for prefix, fs := range c.filesystems {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(bestMatch) {
			bestMatch = prefix
			bestFS = fs
		}
	}
	if bestFS != nil {
		return bestFS
	}
	return c.fallback
}

func (c *CompositeFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	fs := c.findFS(path)
	if fs == nil {
		return nil, fmt.Errorf("no filesystem mounted for path: %s", path)
	}
	return fs.ReadFile(ctx, path)
}

// LocalFS reads files from disk, relative paths resolved against basePath.
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) resolvePath(path string) string {
	if filepath.IsAbs(path) || l.basePath == "" {
		return path
	}
	return filepath.Join(l.basePath, path)
}

func (l *LocalFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(l.resolvePath(path))
}

// MemoryFS serves preloaded documents; used for embedded samples and tests.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{files: make(map[string][]byte)}
}

func (m *MemoryFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, exists := m.files[path]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFS) WriteFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
}

// HTTPFileSystem fetches absolute http(s) URLs. When a Cache is set,
// successful responses are stored in it and served from it afterwards.
type HTTPFileSystem struct {
	client *http.Client
	cache  Cache
}

func NewHTTPFileSystem(client *http.Client, cache Cache) *HTTPFileSystem {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFileSystem{client: client, cache: cache}
}

func (h *HTTPFileSystem) ReadFile(ctx context.Context, url string) ([]byte, error) {
	key := CacheKey(url)
	if h.cache != nil {
		if cached, ok := h.cache.Get(key); ok {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Put(key, data); err != nil {
			return nil, fmt.Errorf("cache %s: %w", url, err)
		}
	}
	return data, nil
}

// IsRemote reports whether src names an http(s) URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
