package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meetnotes/internal/logger"
)

type implWatcher struct {
	root          string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	settle        time.Duration
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
}

// Start blocks until ctx is done, handing every new meeting folder to the
// handler. Runs in flight are waited for before it returns.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Meeting watcher started (max concurrent: %d, settle delay: %s). Monitoring: %s",
		w.maxConcurrent, w.settle, w.root)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing meetings to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Meeting watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isMeetingFolder(event.Name) {
				w.logger.Debug(ctx, "Ignoring: %s", event.Name)
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// schedule runs the handler for folder after the settle delay, at most
// maxConcurrent at a time. A folder already waiting is not queued twice.
func (w *implWatcher) schedule(ctx context.Context, folder string) {
	w.mu.Lock()
	if w.pending[folder] {
		w.mu.Unlock()
		return
	}
	w.pending[folder] = true
	w.mu.Unlock()

	w.logger.Info(ctx, "New meeting folder detected: %s", folder)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.pending, folder)
			w.mu.Unlock()
		}()

		timer := time.NewTimer(w.settle)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}

		select {
		case w.semaphore <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-w.semaphore }()

		if err := w.handler(ctx, folder); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", folder, err)
		}
	}()
}

func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isMeetingFolder accepts visible directories only; recorders write their
// audio files inside a per-meeting folder.
func (w *implWatcher) isMeetingFolder(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
