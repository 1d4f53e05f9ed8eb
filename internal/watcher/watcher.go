// Package watcher reloads the principle catalog from a content directory
// when its files change. Bursts of filesystem events are debounced into a
// single reload; a catalog that fails to load leaves the previous one in
// service.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"solidview/internal/cache"
	"solidview/internal/catalog"
	"solidview/internal/metrics"
)

// DefaultDebounce groups the writes an editor makes when saving a file.
const DefaultDebounce = 250 * time.Millisecond

// Reloader loads a catalog from dir and publishes it to a source.
type Reloader struct {
	dir      string
	source   *catalog.Source
	cache    cache.Store
	metrics  *metrics.Metrics
	debounce time.Duration
}

// NewReloader creates a reloader for dir. The page cache is flushed after
// every successful reload.
func NewReloader(dir string, source *catalog.Source, store cache.Store, m *metrics.Metrics) *Reloader {
	return &Reloader{
		dir:      dir,
		source:   source,
		cache:    store,
		metrics:  m,
		debounce: DefaultDebounce,
	}
}

// SetDebounce overrides the quiet period before a reload.
func (r *Reloader) SetDebounce(d time.Duration) {
	r.debounce = d
}

// Reload loads the catalog from disk and swaps it in.
func (r *Reloader) Reload(ctx context.Context) error {
	c, err := catalog.Load(os.DirFS(r.dir))
	r.metrics.CatalogReloaded(err)
	if err != nil {
		return fmt.Errorf("reload %s: %w", r.dir, err)
	}

	r.source.Replace(c)
	r.cache.InvalidateAll(ctx)
	return nil
}

// Watch blocks until ctx is cancelled, reloading the catalog whenever the
// content directory changes. Directories created later are watched too.
func (r *Reloader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := r.addTree(w, r.dir); err != nil {
		return err
	}
	slog.Info("watching content directory", "dir", r.dir)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := r.addTree(w, ev.Name); err != nil {
						slog.Warn("watch new directory failed", "path", ev.Name, "error", err)
					}
				}
			}
			slog.Debug("content changed", "path", ev.Name, "op", ev.Op.String())

			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := r.Reload(ctx); err != nil {
				slog.Error("catalog reload failed, keeping previous catalog", "error", err)
				continue
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// addTree watches root and every directory below it.
func (r *Reloader) addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
