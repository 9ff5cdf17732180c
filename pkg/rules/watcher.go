// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when its corpus file changes on disk.
//
// # Description
//
// The watcher observes the corpus file's parent directory (editors and
// deploy tooling typically replace the file by rename, which a file-level
// watch would lose) and filters events down to the corpus file itself.
// Events are debounced so a burst of writes triggers one full rebuild, and
// every rebuild goes through Store.Reload: a broken intermediate file keeps
// the previous snapshot active.
//
// # Thread Safety
//
// Safe for concurrent use. Reloads run on the watcher's own goroutine.
type Watcher struct {
	store    *Store
	debounce time.Duration
	logger   *slog.Logger

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	watching bool
}

// WatcherOptions configures a corpus watcher.
type WatcherOptions struct {
	// DebounceWindow is how long to wait after the last event before
	// rebuilding. Default: 500ms; corpus rebuilds are full re-indexes,
	// so the window is wider than a code-watcher's.
	DebounceWindow time.Duration
}

// DefaultWatcherOptions returns the defaults.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{DebounceWindow: 500 * time.Millisecond}
}

// NewWatcher creates a watcher for the store's corpus path. Call Start to
// begin watching and Stop (or cancel the context) to end it.
func NewWatcher(store *Store, logger *slog.Logger, opts *WatcherOptions) (*Watcher, error) {
	if opts == nil {
		defaults := DefaultWatcherOptions()
		opts = &defaults
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		store:    store,
		debounce: opts.DebounceWindow,
		logger:   logger,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; event handling runs on a
// background goroutine until Stop is called or ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	dir := filepath.Dir(w.store.Path())
	if err := w.fsw.Add(dir); err != nil {
		return err
	}

	go w.loop(ctx)
	w.logger.Info("corpus watcher started", "dir", dir, "file", filepath.Base(w.store.Path()))
	return nil
}

// Stop ends watching and releases the underlying fsnotify watcher. Safe to
// call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsw.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	target := filepath.Base(w.store.Path())

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("corpus watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.store.Reload(); err != nil {
				w.logger.Warn("corpus rebuild after change failed", "error", err)
			}
		}
	}
}
