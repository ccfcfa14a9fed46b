package api

import (
	"fmt"
	"sort"
	"sync"

	"github.com/luxgrid/pxld/pkg/cache"
	"github.com/luxgrid/pxld/pkg/pxfile"
	"github.com/segmentio/ksuid"
)

// FileRegistry tracks the readers the server has open, keyed by opaque
// handles. The registry map is the server's only mutable state; reads against
// an open file need no locking at all.
type FileRegistry struct {
	mu    sync.RWMutex
	files map[string]*pxfile.Reader
	cache *cache.IndexCache // nil when index caching is disabled
}

// NewFileRegistry creates a registry. idx may be nil.
func NewFileRegistry(idx *cache.IndexCache) *FileRegistry {
	return &FileRegistry{
		files: make(map[string]*pxfile.Reader),
		cache: idx,
	}
}

// Open opens a capture file and registers it under a fresh handle. When an
// index cache is attached, a fingerprint hit skips the frame walk; checksum
// verification still runs either way unless skipVerify is set.
func (reg *FileRegistry) Open(path string, skipVerify bool) (string, *pxfile.Reader, error) {
	opts := pxfile.ReaderOptions{Path: path, SkipVerify: skipVerify}

	var fp string
	if reg.cache != nil {
		var err error
		fp, err = cache.Fingerprint(path)
		if err == nil {
			if offsets, ok, cacheErr := reg.cache.Get(fp); cacheErr == nil && ok {
				opts.Index = offsets
			}
		}
	}

	r, err := pxfile.OpenWithOptions(opts)
	if err != nil && opts.Index != nil {
		// A stale cache entry must never keep a valid file from opening.
		_ = reg.cache.Delete(fp)
		opts.Index = nil
		r, err = pxfile.OpenWithOptions(opts)
	}
	if err != nil {
		return "", nil, err
	}

	if reg.cache != nil && fp != "" && opts.Index == nil {
		_ = reg.cache.Put(fp, r.FrameOffsets())
	}

	id := ksuid.New().String()
	reg.mu.Lock()
	reg.files[id] = r
	reg.mu.Unlock()
	return id, r, nil
}

// Get returns the reader registered under id.
func (reg *FileRegistry) Get(id string) (*pxfile.Reader, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.files[id]
	return r, ok
}

// List returns a summary of every registered file, ordered by handle.
func (reg *FileRegistry) List() []FileSummary {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]FileSummary, 0, len(reg.files))
	for id, r := range reg.files {
		out = append(out, FileSummary{ID: id, Info: r.Info()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered files.
func (reg *FileRegistry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.files)
}

// Close closes and unregisters one file.
func (reg *FileRegistry) Close(id string) error {
	reg.mu.Lock()
	r, ok := reg.files[id]
	delete(reg.files, id)
	reg.mu.Unlock()

	if !ok {
		return fmt.Errorf("no file registered under %q", id)
	}
	return r.Close()
}

// CloseAll closes every registered file, keeping the first error.
func (reg *FileRegistry) CloseAll() error {
	reg.mu.Lock()
	files := reg.files
	reg.files = make(map[string]*pxfile.Reader)
	reg.mu.Unlock()

	var firstErr error
	for _, r := range files {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
