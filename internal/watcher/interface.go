package watcher

import "context"

// Watcher processes meeting folders as they appear under a recordings root.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one new meeting folder.
type EventHandler func(ctx context.Context, folder string) error
