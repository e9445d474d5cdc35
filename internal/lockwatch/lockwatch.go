// Package lockwatch maintains the locked-workspace list from a YAML file
// on disk. Operators edit the file to freeze a workspace against writes;
// the watcher picks the change up without a restart. Implements
// core.LockPolicy.
package lockwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const debounceDelay = 200 * time.Millisecond

// lockFile is the on-disk format: a list of workspace ids under one key.
type lockFile struct {
	Locked []string `yaml:"locked"`
}

// Watcher holds the current locked set and refreshes it when the backing
// file changes.
type Watcher struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	locked map[string]bool
}

// New creates a watcher for the given lock file and performs the initial
// load. A missing file means no workspaces are locked.
func New(path string, logger *slog.Logger) (*Watcher, error) {
	w := &Watcher{
		path:   path,
		logger: logger,
		locked: make(map[string]bool),
	}
	if err := w.reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Locked reports whether a workspace is frozen against writes.
func (w *Watcher) Locked(workspaceID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.locked[workspaceID]
}

// Watch blocks until the context is cancelled, reloading the lock file on
// every write. The parent directory is watched rather than the file
// itself so editors that replace the file atomically still trigger a
// reload.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch lock file directory: %w", err)
	}

	var debounceTimer *time.Timer
	reloads := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}

			// Debounce: editors fire several events per save.
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})

		case <-reloads:
			if err := w.reload(); err != nil {
				w.logger.Error("failed to reload lock file", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("lock file reloaded", "path", w.path, "locked", w.count())

		case err := <-watcher.Errors:
			w.logger.Error("lock file watcher error", "error", err)
		}
	}
}

// reload replaces the locked set from disk. A missing file clears it.
func (w *Watcher) reload() error {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		w.mu.Lock()
		w.locked = make(map[string]bool)
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	var parsed lockFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse lock file: %w", err)
	}

	locked := make(map[string]bool, len(parsed.Locked))
	for _, id := range parsed.Locked {
		locked[id] = true
	}

	w.mu.Lock()
	w.locked = locked
	w.mu.Unlock()
	return nil
}

func (w *Watcher) count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.locked)
}
