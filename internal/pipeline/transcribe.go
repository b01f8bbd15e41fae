package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// transcribeAll runs the recognizer over every stream, at most
// performance.max_concurrent at a time, and waits for all of them. The
// first failure cancels the rest and fails the whole call. Results keep
// the order of streams.
func (p *implPipeline) transcribeAll(ctx context.Context, streams []transcript.AudioStream) ([]transcript.StreamTranscript, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	results := make([]transcript.StreamTranscript, len(streams))

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	failed := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, st := range streams {
		wg.Add(1)
		go func(i int, st transcript.AudioStream) {
			defer wg.Done()

			if err := sem.acquire(ctx); err != nil {
				failed(err)
				return
			}
			defer sem.release()
			if err := ctx.Err(); err != nil {
				failed(err)
				return
			}

			began := time.Now()
			segs, err := p.transcriber.Transcribe(ctx, st.Path)
			if err != nil {
				failed(fmt.Errorf("transcribe %s: %w", st.ID, err))
				return
			}
			p.logger.Info(ctx, "Transcribed %s: %d segments in %s", st.ID, len(segs), time.Since(began).Round(time.Millisecond))
			results[i] = transcript.StreamTranscript{Stream: st, Segments: segs}
		}(i, st)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
