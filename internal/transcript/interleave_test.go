package transcript

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func seg(speaker string, start, end float64, text string) NormalizedSegment {
	return NormalizedSegment{Speaker: speaker, Start: sec(start), End: sec(end), Text: text}
}

func turn(speaker string, start, end float64, text string) Turn {
	return Turn{Speaker: speaker, Start: sec(start), End: sec(end), Text: text}
}

func TestInterleave(t *testing.T) {
	tests := []struct {
		name    string
		streams [][]NormalizedSegment
		silence time.Duration
		want    []Turn
	}{
		{
			name: "crosstalk keeps turns apart",
			streams: [][]NormalizedSegment{
				{seg("alice", 0, 2, "hello"), seg("alice", 2.1, 4, "there")},
				{seg("bob", 1, 3, "hi alice")},
			},
			silence: 500 * time.Millisecond,
			want: []Turn{
				turn("alice", 0, 2, "hello"),
				turn("bob", 1, 3, "hi alice"),
				turn("alice", 2.1, 4, "there"),
			},
		},
		{
			name: "same speaker below threshold coalesces",
			streams: [][]NormalizedSegment{
				{seg("alice", 0, 2, "hello"), seg("alice", 2.1, 4, "there")},
				{seg("bob", 10, 11, "hi")},
			},
			silence: 500 * time.Millisecond,
			want: []Turn{
				turn("alice", 0, 4, "hello there"),
				turn("bob", 10, 11, "hi"),
			},
		},
		{
			name: "same speaker above threshold stays split",
			streams: [][]NormalizedSegment{
				{seg("alice", 0, 2, "hello"), seg("alice", 3, 4, "there")},
			},
			silence: 500 * time.Millisecond,
			want: []Turn{
				turn("alice", 0, 2, "hello"),
				turn("alice", 3, 4, "there"),
			},
		},
		{
			name: "zero threshold still merges overlapping segments",
			streams: [][]NormalizedSegment{
				{seg("a", 0, 3, "x"), seg("a", 2, 4, "y")},
			},
			want: []Turn{turn("a", 0, 4, "x y")},
		},
		{
			name: "zero threshold never merges gaps",
			streams: [][]NormalizedSegment{
				{seg("alice", 0, 2, "a"), seg("alice", 2, 3, "b")},
			},
			silence: 0,
			want: []Turn{
				turn("alice", 0, 2, "a"),
				turn("alice", 2, 3, "b"),
			},
		},
		{
			name: "empty stream is skipped",
			streams: [][]NormalizedSegment{
				{},
				{seg("bob", 1, 2, "only bob")},
			},
			silence: time.Second,
			want:    []Turn{turn("bob", 1, 2, "only bob")},
		},
		{
			name: "coalesced turn keeps the later end",
			streams: [][]NormalizedSegment{
				{seg("alice", 0, 5, "long"), seg("alice", 1, 2, "inner")},
			},
			silence: time.Second,
			want:    []Turn{turn("alice", 0, 5, "long inner")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interleave(tt.streams, tt.silence)
			if err != nil {
				t.Fatalf("Interleave() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Interleave() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterleaveTieBreak(t *testing.T) {
	tests := []struct {
		name    string
		streams [][]NormalizedSegment
		want    []string
	}{
		{
			name: "equal first segments",
			streams: [][]NormalizedSegment{
				{seg("alice", 1, 2, "a")},
				{seg("bob", 1, 2, "b")},
			},
			want: []string{"alice", "bob"},
		},
		{
			name: "later stream reaches the tie first",
			streams: [][]NormalizedSegment{
				{seg("alice", 5, 6, "a")},
				{seg("bob", 0, 1, "b0"), seg("bob", 5, 6, "b5")},
			},
			want: []string{"bob", "alice", "bob"},
		},
		{
			name: "three-way tie follows discovery order",
			streams: [][]NormalizedSegment{
				{seg("carol", 3, 4, "c")},
				{seg("alice", 3, 4, "a")},
				{seg("bob", 3, 4, "b")},
			},
			want: []string{"carol", "alice", "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interleave(tt.streams, 0)
			if err != nil {
				t.Fatalf("Interleave() error = %v", err)
			}
			var speakers []string
			for _, tr := range got {
				speakers = append(speakers, tr.Speaker)
			}
			if diff := cmp.Diff(tt.want, speakers); diff != "" {
				t.Errorf("speaker order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func syntheticStreams() [][]NormalizedSegment {
	speakers := []string{"alice", "bob", "carol", "dave"}
	streams := make([][]NormalizedSegment, len(speakers))
	for i, sp := range speakers {
		for j := 0; j < 50; j++ {
			// Deliberately collide start times across speakers.
			start := float64((j*7+i*3)%40) + float64(j)
			streams[i] = append(streams[i], seg(sp, start, start+1.5, fmt.Sprintf("%s-%d", sp, j)))
		}
	}
	return streams
}

func TestInterleaveOutputIsOrdered(t *testing.T) {
	streams := syntheticStreams()
	for i := range streams {
		segs, err := Normalize(AudioStream{ID: streams[i][0].Speaker}, toSegments(streams[i]))
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		streams[i] = segs
	}

	turns, err := Interleave(streams, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("Interleave() error = %v", err)
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Start < turns[i-1].Start {
			t.Fatalf("turn %d starts at %s before turn %d at %s", i, turns[i].Start, i-1, turns[i-1].Start)
		}
	}
}

func TestInterleaveDeterministic(t *testing.T) {
	render := func() string {
		streams := syntheticStreams()
		for i := range streams {
			streams[i], _ = Normalize(AudioStream{ID: streams[i][0].Speaker}, toSegments(streams[i]))
		}
		turns, err := Interleave(streams, time.Second)
		if err != nil {
			t.Fatalf("Interleave() error = %v", err)
		}
		return fmt.Sprintf("%#v", turns)
	}

	first := render()
	for i := 0; i < 5; i++ {
		if got := render(); got != first {
			t.Fatalf("run %d differs from first run", i+1)
		}
	}
}

func TestInterleaveNoDataLoss(t *testing.T) {
	streams := syntheticStreams()
	for i := range streams {
		streams[i], _ = Normalize(AudioStream{ID: streams[i][0].Speaker}, toSegments(streams[i]))
	}

	var inChars, inCount int
	for _, segs := range streams {
		for _, s := range segs {
			inChars += len(s.Text)
			inCount++
		}
	}

	turns, err := Interleave(streams, 2*time.Second)
	if err != nil {
		t.Fatalf("Interleave() error = %v", err)
	}

	var outChars, joins int
	for _, tr := range turns {
		outChars += len(tr.Text)
		joins += strings.Count(tr.Text, " ")
	}
	// Synthetic texts contain no spaces, so every space is a join separator.
	if outChars-joins != inChars {
		t.Errorf("characters: got %d (minus %d separators), want %d", outChars, joins, inChars)
	}
	if len(turns)+joins != inCount {
		t.Errorf("segments: %d turns + %d joins != %d inputs", len(turns), joins, inCount)
	}
}

func TestInterleaveErrors(t *testing.T) {
	tests := []struct {
		name      string
		streams   [][]NormalizedSegment
		wantEmpty bool
	}{
		{name: "no streams", streams: nil, wantEmpty: true},
		{name: "all streams empty", streams: [][]NormalizedSegment{{}, {}}, wantEmpty: true},
		{
			name: "unsorted stream",
			streams: [][]NormalizedSegment{
				{seg("alice", 3, 4, "late"), seg("alice", 1, 2, "early")},
			},
		},
		{
			name: "inverted segment",
			streams: [][]NormalizedSegment{
				{seg("alice", 3, 1, "backwards")},
			},
		},
		{
			name: "mixed speakers",
			streams: [][]NormalizedSegment{
				{seg("alice", 0, 1, "a"), seg("bob", 2, 3, "b")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interleave(tt.streams, time.Second)
			if err == nil {
				t.Fatal("Interleave() expected error")
			}
			var empty *EmptyMeetingError
			var malformed *MalformedTimelineError
			if tt.wantEmpty && !errors.As(err, &empty) {
				t.Errorf("error = %v, want EmptyMeetingError", err)
			}
			if !tt.wantEmpty && !errors.As(err, &malformed) {
				t.Errorf("error = %v, want MalformedTimelineError", err)
			}
		})
	}
}

func toSegments(ns []NormalizedSegment) []Segment {
	out := make([]Segment, len(ns))
	for i, s := range ns {
		out[i] = Segment{Start: s.Start.Seconds(), End: s.End.Seconds(), Text: s.Text}
	}
	return out
}
