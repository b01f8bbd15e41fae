package pipeline

import "context"

// semaphore bounds how many recognizer processes run at once.
type semaphore struct {
	slots chan struct{}
}

// newSemaphore returns a semaphore with n slots, at least one.
func newSemaphore(n int) *semaphore {
	if n < 1 {
		n = 1
	}
	return &semaphore{slots: make(chan struct{}, n)}
}

// acquire blocks until a slot is free or ctx is done.
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.slots
}
