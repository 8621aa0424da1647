package repository

import (
	"log/slog"
	"sync"

	"cityaqi/internal/modules/aqi/types"
)

type AQIRepository interface {
	Dataset() (*types.Dataset, error)
}

// FileRepository loads the data file once and hands the same read-only
// Dataset to every caller until Invalidate is called. A failed load is
// remembered and returned until the next invalidation.
type FileRepository struct {
	path string

	mu      sync.RWMutex
	loaded  bool
	dataset *types.Dataset
	err     error
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the file now, replacing whatever is cached.
func (r *FileRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()
	return r.err
}

func (r *FileRepository) Dataset() (*types.Dataset, error) {
	r.mu.RLock()
	if r.loaded {
		ds, err := r.dataset, r.err
		r.mu.RUnlock()
		return ds, err
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		r.loadLocked()
	}
	return r.dataset, r.err
}

// Invalidate drops the cached dataset; the next Dataset call reloads the file.
func (r *FileRepository) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.mu.Unlock()
}

func (r *FileRepository) loadLocked() {
	ds, err := LoadFile(r.path)
	r.loaded = true
	if err != nil {
		slog.Error("load data file failed", "path", r.path, "error", err)
		r.dataset, r.err = nil, err
		return
	}
	slog.Info("data file loaded",
		"path", r.path,
		"readings", len(ds.Readings),
		"cities", len(ds.Cities),
		"modTime", ds.ModTime,
	)
	r.dataset, r.err = ds, nil
}
