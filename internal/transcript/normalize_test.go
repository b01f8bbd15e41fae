package transcript

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		stream AudioStream
		segs   []Segment
		want   []NormalizedSegment
	}{
		{
			name:   "zero offset",
			stream: AudioStream{ID: "alice"},
			segs:   []Segment{{Start: 0, End: 2, Text: "hello"}},
			want:   []NormalizedSegment{seg("alice", 0, 2, "hello")},
		},
		{
			name:   "offset shifts start and end",
			stream: AudioStream{ID: "bob", Offset: 90 * time.Second},
			segs:   []Segment{{Start: 1.5, End: 3, Text: "hi"}},
			want:   []NormalizedSegment{seg("bob", 91.5, 93, "hi")},
		},
		{
			name:   "unsorted input is re-sorted stably",
			stream: AudioStream{ID: "carol"},
			segs: []Segment{
				{Start: 4, End: 5, Text: "third"},
				{Start: 1, End: 2, Text: "first"},
				{Start: 1, End: 3, Text: "second"},
			},
			want: []NormalizedSegment{
				seg("carol", 1, 2, "first"),
				seg("carol", 1, 3, "second"),
				seg("carol", 4, 5, "third"),
			},
		},
		{
			name:   "no segments",
			stream: AudioStream{ID: "dave"},
			segs:   nil,
			want:   []NormalizedSegment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.stream, tt.segs)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		segs   []Segment
		idx    int
	}{
		{name: "NaN start", segs: []Segment{{Start: math.NaN(), End: 1}}, idx: 0},
		{name: "infinite end", segs: []Segment{{Start: 0, End: 1}, {Start: 1, End: math.Inf(1)}}, idx: 1},
		{name: "negative start", segs: []Segment{{Start: -1, End: 1}}, idx: 0},
		{name: "end before start", segs: []Segment{{Start: 5, End: 4}}, idx: 0},
		{name: "start beyond duration range", segs: []Segment{{Start: 1, End: 2}, {Start: 1e11, End: 1e11}}, idx: 1},
		{name: "offset overflows", offset: time.Duration(math.MaxInt64 - int64(time.Second)), segs: []Segment{{Start: 0, End: 0.5}, {Start: 2, End: 3}}, idx: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(AudioStream{ID: "alice", Offset: tt.offset}, tt.segs)
			var malformed *MalformedTimelineError
			if !errors.As(err, &malformed) {
				t.Fatalf("Normalize() error = %v, want MalformedTimelineError", err)
			}
			if malformed.Stream != "alice" || malformed.Index != tt.idx {
				t.Errorf("got stream %q index %d, want %q index %d", malformed.Stream, malformed.Index, "alice", tt.idx)
			}
		})
	}
}
