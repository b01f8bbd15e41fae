package transcript

import "time"

// StreamTranscript pairs a stream with the segments recognised in it.
type StreamTranscript struct {
	Stream   AudioStream
	Segments []Segment
}

// BuildOptions configures Build.
type BuildOptions struct {
	Title     string
	StartTime time.Time
	Silence   time.Duration
}

// Build runs Normalize, Interleave and Assemble over all streams, which
// must be given in discovery order.
func Build(streams []StreamTranscript, opts BuildOptions) (*Meeting, error) {
	if len(streams) == 0 {
		return nil, &EmptyMeetingError{}
	}

	normalized := make([][]NormalizedSegment, 0, len(streams))
	participants := make([]string, 0, len(streams))
	for _, st := range streams {
		segs, err := Normalize(st.Stream, st.Segments)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, segs)
		participants = append(participants, st.Stream.ID)
	}

	turns, err := Interleave(normalized, opts.Silence)
	if err != nil {
		return nil, err
	}

	return Assemble(turns, Metadata{
		Title:        opts.Title,
		StartTime:    opts.StartTime,
		Participants: participants,
	})
}
