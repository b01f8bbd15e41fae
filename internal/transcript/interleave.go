package transcript

import (
	"container/heap"
	"fmt"
	"time"
)

// Interleave merges per-speaker segment streams into one time-ordered
// sequence of turns.
//
// Streams must be given in discovery order: when two segments start at the
// same instant, the one from the earlier stream comes first. Consecutive
// segments of one speaker, with nobody else in between and a gap shorter
// than silence, are coalesced into a single turn. Overlapping speech from
// different speakers is kept as separate turns.
func Interleave(streams [][]NormalizedSegment, silence time.Duration) ([]Turn, error) {
	if len(streams) == 0 {
		return nil, &EmptyMeetingError{}
	}

	total := 0
	for _, segs := range streams {
		if err := checkStream(segs); err != nil {
			return nil, err
		}
		total += len(segs)
	}
	if total == 0 {
		return nil, &EmptyMeetingError{Streams: len(streams)}
	}

	h := make(cursorHeap, 0, len(streams))
	for rank, segs := range streams {
		if len(segs) > 0 {
			h = append(h, &cursor{rank: rank, segs: segs})
		}
	}
	heap.Init(&h)

	turns := make([]Turn, 0, total)
	lastRank := -1
	for h.Len() > 0 {
		c := h[0]
		seg := c.segs[c.pos]

		if n := len(turns); n > 0 && c.rank == lastRank && seg.Start-turns[n-1].End < silence {
			turns[n-1] = coalesce(turns[n-1], seg)
		} else {
			turns = append(turns, Turn{Speaker: seg.Speaker, Start: seg.Start, End: seg.End, Text: seg.Text})
		}
		lastRank = c.rank

		c.pos++
		if c.pos == len(c.segs) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return turns, nil
}

// checkStream verifies the merge precondition for one stream.
func checkStream(segs []NormalizedSegment) error {
	for i, s := range segs {
		if s.End < s.Start {
			return &MalformedTimelineError{Stream: s.Speaker, Index: i, Reason: "end before start"}
		}
		if i > 0 && s.Start < segs[i-1].Start {
			return &MalformedTimelineError{
				Stream: s.Speaker,
				Index:  i,
				Reason: fmt.Sprintf("starts at %s, before previous segment at %s", s.Start, segs[i-1].Start),
			}
		}
		if i > 0 && s.Speaker != segs[0].Speaker {
			return &MalformedTimelineError{Stream: segs[0].Speaker, Index: i, Reason: "mixed speakers in one stream"}
		}
	}
	return nil
}

func coalesce(t Turn, seg NormalizedSegment) Turn {
	switch {
	case t.Text == "":
		t.Text = seg.Text
	case seg.Text != "":
		t.Text += " " + seg.Text
	}
	if seg.End > t.End {
		t.End = seg.End
	}
	return t
}

// cursor is the read position in one stream.
type cursor struct {
	rank int
	pos  int
	segs []NormalizedSegment
}

// cursorHeap orders stream heads by (start, rank). Within a stream the
// cursor only moves forward, so the order is total.
type cursorHeap []*cursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	a, b := h[i].segs[h[i].pos], h[j].segs[h[j].pos]
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return h[i].rank < h[j].rank
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(*cursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}
