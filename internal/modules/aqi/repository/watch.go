package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to a single file. It watches the parent
// directory so that replace-by-rename saves are seen too.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	lastMod time.Time
	mu      sync.Mutex
}

func NewFileWatcher(path string) (*FileWatcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	m := &FileWatcher{path: path, watcher: watcher}
	if info, err := os.Stat(path); err == nil {
		m.lastMod = info.ModTime()
	}
	return m, nil
}

// Watch blocks until ctx is done or the watcher is closed, calling onChange
// with the file path after every observed change.
func (m *FileWatcher) Watch(ctx context.Context, onChange func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if m.changed(event) {
				onChange(m.path)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "path", m.path, "error", err)
		}
	}
}

func (m *FileWatcher) Close() error {
	return m.watcher.Close()
}

func (m *FileWatcher) changed(event fsnotify.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		m.lastMod = time.Time{}
		return true
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(m.path)
	if err != nil {
		return false
	}
	if m.lastMod.IsZero() || info.ModTime().After(m.lastMod) {
		m.lastMod = info.ModTime()
		return true
	}
	return false
}
