package transcript

import "fmt"

// MissingOffsetError reports a stream whose recording-start offset could not be determined.
type MissingOffsetError struct {
	Stream string
	Err    error
}

func (e *MissingOffsetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing recording offset for stream %q: %v", e.Stream, e.Err)
	}
	return fmt.Sprintf("missing recording offset for stream %q", e.Stream)
}

func (e *MissingOffsetError) Unwrap() error { return e.Err }

// MalformedTimelineError reports segments that cannot be placed on the timeline.
// Index is the position of the offending segment within its stream, or -1.
type MalformedTimelineError struct {
	Stream string
	Index  int
	Reason string
}

func (e *MalformedTimelineError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed timeline in stream %q: %s", e.Stream, e.Reason)
	}
	return fmt.Sprintf("malformed timeline in stream %q at segment %d: %s", e.Stream, e.Index, e.Reason)
}

// EmptyMeetingError reports that there is nothing to interleave.
type EmptyMeetingError struct {
	Streams int
}

func (e *EmptyMeetingError) Error() string {
	if e.Streams == 0 {
		return "empty meeting: no audio streams"
	}
	return fmt.Sprintf("empty meeting: all %d streams have no speech", e.Streams)
}
