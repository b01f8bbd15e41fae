package transcript

import (
	"fmt"
	"strings"
	"time"
)

// Assemble builds the Meeting handed to the summarizer. It re-checks that
// turns are ordered by start time; it does not reorder them.
func Assemble(turns []Turn, meta Metadata) (*Meeting, error) {
	if len(turns) == 0 {
		return nil, &EmptyMeetingError{Streams: len(meta.Participants)}
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Start < turns[i-1].Start {
			return nil, &MalformedTimelineError{
				Stream: turns[i].Speaker,
				Index:  -1,
				Reason: fmt.Sprintf("turn %d starts at %s, before turn %d at %s", i, turns[i].Start, i-1, turns[i-1].Start),
			}
		}
	}

	participants := meta.Participants
	if len(participants) == 0 {
		participants = speakersOf(turns)
	}

	return &Meeting{
		Title:        meta.Title,
		StartTime:    meta.StartTime,
		Participants: append([]string(nil), participants...),
		Turns:        append([]Turn(nil), turns...),
	}, nil
}

// Clock returns the wall-clock time at which the turn starts.
func (m *Meeting) Clock(t Turn) time.Time {
	return m.StartTime.Add(t.Start)
}

// Overlaps reports whether turn i starts before an earlier turn of another
// speaker has ended.
func (m *Meeting) Overlaps(i int) bool {
	if i <= 0 || i >= len(m.Turns) {
		return false
	}
	cur := m.Turns[i]
	for j := i - 1; j >= 0; j-- {
		prev := m.Turns[j]
		if prev.Speaker != cur.Speaker && prev.End > cur.Start {
			return true
		}
	}
	return false
}

// Duration is the span from the first turn's start to the latest end.
func (m *Meeting) Duration() time.Duration {
	var end time.Duration
	for _, t := range m.Turns {
		if t.End > end {
			end = t.End
		}
	}
	if len(m.Turns) == 0 {
		return 0
	}
	return end - m.Turns[0].Start
}

// Transcript renders one line per turn as "[HH:MM:SS] speaker: text".
func (m *Meeting) Transcript() string {
	var b strings.Builder
	for _, t := range m.Turns {
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.Clock(t).Format("15:04:05"), t.Speaker, t.Text)
	}
	return b.String()
}

func speakersOf(turns []Turn) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range turns {
		if !seen[t.Speaker] {
			seen[t.Speaker] = true
			out = append(out, t.Speaker)
		}
	}
	return out
}
