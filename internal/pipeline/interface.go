package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// Pipeline turns one meeting folder into a transcript and meeting notes.
type Pipeline interface {
	Process(ctx context.Context, meetingFolder string) (*Result, error)
}

// Result lists what a run produced. Optional artifacts are empty when not
// written.
type Result struct {
	RunID          string
	OutputDir      string
	TranscriptPath string
	JSONPath       string
	NotesPath      string
	DocxPath       string
	ThinkingPath   string
	// Reused is set when an existing transcript was summarized again.
	Reused  bool
	Meeting *transcript.Meeting
}
