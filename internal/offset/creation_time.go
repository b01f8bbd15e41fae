package offset

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// Prober reads the creation timestamp stored in a recording's metadata.
type Prober interface {
	CreationTime(ctx context.Context, path string) (time.Time, error)
}

// CreationTime places a stream at the difference between its container's
// creation time and the meeting start.
type CreationTime struct {
	Prober       Prober
	MeetingStart time.Time
}

func (c *CreationTime) Offset(ctx context.Context, stream transcript.AudioStream) (time.Duration, error) {
	// The converted WAV carries no metadata; ask the original recording.
	path := stream.Path
	if len(stream.Sources) > 0 {
		path = stream.Sources[0]
	}

	created, err := c.Prober.CreationTime(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoOffset, err)
	}
	return created.Sub(c.MeetingStart), nil
}
