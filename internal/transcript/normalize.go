package transcript

import (
	"math"
	"sort"
	"time"
)

// Normalize rebases a stream's segments onto meeting-absolute time.
// Segments out of start order are stably re-sorted; segments with
// non-finite, negative or inverted timestamps are rejected.
func Normalize(stream AudioStream, segs []Segment) ([]NormalizedSegment, error) {
	out := make([]NormalizedSegment, 0, len(segs))
	for i, s := range segs {
		start, bad := seconds(s.Start)
		if bad != "" {
			return nil, &MalformedTimelineError{Stream: stream.ID, Index: i, Reason: "start " + bad}
		}
		end, bad := seconds(s.End)
		if bad != "" {
			return nil, &MalformedTimelineError{Stream: stream.ID, Index: i, Reason: "end " + bad}
		}
		if end < start {
			return nil, &MalformedTimelineError{Stream: stream.ID, Index: i, Reason: "end before start"}
		}
		absStart, ok := shift(start, stream.Offset)
		if !ok {
			return nil, &MalformedTimelineError{Stream: stream.ID, Index: i, Reason: "start plus offset is out of range"}
		}
		absEnd, ok := shift(end, stream.Offset)
		if !ok {
			return nil, &MalformedTimelineError{Stream: stream.ID, Index: i, Reason: "end plus offset is out of range"}
		}
		out = append(out, NormalizedSegment{
			Speaker: stream.ID,
			Start:   absStart,
			End:     absEnd,
			Text:    s.Text,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// seconds converts ASR seconds to a duration, or returns why it cannot.
func seconds(v float64) (time.Duration, string) {
	switch {
	case math.IsNaN(v):
		return 0, "is NaN"
	case math.IsInf(v, 0):
		return 0, "is infinite"
	case v < 0:
		return 0, "is negative"
	}
	ns := math.Round(v * float64(time.Second))
	if ns >= float64(math.MaxInt64) {
		return 0, "is out of range"
	}
	return time.Duration(ns), ""
}

// shift adds the stream offset, reporting false on overflow.
func shift(d, offset time.Duration) (time.Duration, bool) {
	sum := d + offset
	if (offset > 0 && sum < d) || (offset < 0 && sum > d) {
		return 0, false
	}
	return sum, true
}
