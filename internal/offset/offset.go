// Package offset decides where each participant's recording starts on the
// meeting timeline.
package offset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// ErrNoOffset is returned by a Source that cannot place a stream.
var ErrNoOffset = errors.New("no offset available")

// Source yields the time between meeting start and a stream's first sample.
type Source interface {
	Offset(ctx context.Context, stream transcript.AudioStream) (time.Duration, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, stream transcript.AudioStream) (time.Duration, error)

func (f SourceFunc) Offset(ctx context.Context, stream transcript.AudioStream) (time.Duration, error) {
	return f(ctx, stream)
}

// Padded places every stream at zero. Zoom pads per-speaker recordings to
// the full meeting length, so their first sample is the meeting start.
type Padded struct{}

func (Padded) Offset(context.Context, transcript.AudioStream) (time.Duration, error) {
	return 0, nil
}

// Static looks offsets up by stream ID.
type Static map[string]time.Duration

// StaticSeconds builds a Static source from offsets in seconds.
func StaticSeconds(secs map[string]float64) Static {
	s := make(Static, len(secs))
	for id, v := range secs {
		s[id] = time.Duration(v * float64(time.Second))
	}
	return s
}

func (s Static) Offset(_ context.Context, stream transcript.AudioStream) (time.Duration, error) {
	if d, ok := s[stream.ID]; ok {
		return d, nil
	}
	return 0, ErrNoOffset
}

// Chain tries each source in order and returns the first offset found.
type Chain []Source

func (c Chain) Offset(ctx context.Context, stream transcript.AudioStream) (time.Duration, error) {
	var errs []error
	for _, src := range c {
		d, err := src.Offset(ctx, stream)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return 0, ErrNoOffset
	}
	return 0, errors.Join(errs...)
}

// Resolve fills in the Offset of every stream. A stream the source cannot
// place starts at zero with a warning, or fails the run with a
// *transcript.MissingOffsetError when strict is set.
func Resolve(ctx context.Context, streams []transcript.AudioStream, src Source, strict bool, log logger.Logger) ([]transcript.AudioStream, error) {
	out := make([]transcript.AudioStream, len(streams))
	for i, st := range streams {
		d, err := src.Offset(ctx, st)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			missing := &transcript.MissingOffsetError{Stream: st.ID, Err: err}
			if strict {
				return nil, missing
			}
			log.Warn(ctx, "%v; assuming the recording starts with the meeting", missing)
			d = 0
		}
		st.Offset = d
		out[i] = st
		log.Debug(ctx, "Offset for %s: %s", st.ID, d)
	}
	return out, nil
}

// Describe names a source for log messages.
func Describe(src Source) string {
	switch s := src.(type) {
	case Padded:
		return "padded (all zero)"
	case Static:
		return fmt.Sprintf("static (%d configured)", len(s))
	case *CreationTime:
		return "file creation time"
	case Chain:
		return fmt.Sprintf("chain of %d sources", len(s))
	default:
		return fmt.Sprintf("%T", src)
	}
}
