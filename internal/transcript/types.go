package transcript

import "time"

// AudioStream is one participant's recording.
type AudioStream struct {
	// ID identifies the participant, e.g. the speaker name taken from the file name.
	ID string `json:"id"`
	// Path is the WAV file handed to the ASR collaborator.
	Path string `json:"path"`
	// Sources lists the original recordings the WAV was built from.
	Sources []string `json:"sources,omitempty"`
	// Offset is the time from meeting start to the stream's first sample.
	Offset time.Duration `json:"offset"`
}

// Segment is a timed span of recognised text, relative to its own stream.
type Segment struct {
	Start      float64 `json:"start"` // seconds
	End        float64 `json:"end"`   // seconds
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"` // 0 when the recognizer does not report one
}

// NormalizedSegment is a Segment rebased onto meeting-absolute time.
type NormalizedSegment struct {
	Speaker string        `json:"speaker"`
	Start   time.Duration `json:"start"`
	End     time.Duration `json:"end"`
	Text    string        `json:"text"`
}

// Turn is a contiguous utterance of one speaker in the merged timeline.
type Turn struct {
	Speaker string        `json:"speaker"`
	Start   time.Duration `json:"start"`
	End     time.Duration `json:"end"`
	Text    string        `json:"text"`
}

// Metadata describes the meeting independently of its turns.
type Metadata struct {
	Title        string
	StartTime    time.Time
	Participants []string
}

// Meeting is the ordered sequence of turns plus metadata.
type Meeting struct {
	Title        string    `json:"title,omitempty"`
	StartTime    time.Time `json:"start_time"`
	Participants []string  `json:"participants"`
	Turns        []Turn    `json:"turns"`
}
