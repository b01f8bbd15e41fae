package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meetnotes/internal/logger"
)

// New watches root for new meeting folders. A folder is handed to handler
// once settle has passed since it appeared, so the recorder can finish
// writing into it.
func New(root string, handler EventHandler, log logger.Logger, maxConcurrent int, settle time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		root:          root,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		settle:        settle,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		pending:       make(map[string]bool),
	}, nil
}
