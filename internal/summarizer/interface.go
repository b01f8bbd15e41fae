package summarizer

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// Summarizer turns an interleaved meeting into Markdown meeting notes.
type Summarizer interface {
	Summarize(ctx context.Context, m *transcript.Meeting) (*Notes, error)
}

// Notes is the result of one summarization.
type Notes struct {
	Markdown string
	// Thinking is the model's reasoning trace, when it produced one.
	Thinking     string
	PromptTokens int
	OutputTokens int
	Duration     time.Duration
}
