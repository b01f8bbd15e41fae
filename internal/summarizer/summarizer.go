package summarizer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/ollama/ollama/api"

	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

//go:embed prompts/*.txt
var prompts embed.FS

// ErrTranscriptTooLong is returned when the prompt would not fit the model.
var ErrTranscriptTooLong = errors.New("transcript too long for the model context")

// minContext is the smallest num_ctx requested from Ollama.
const minContext = 8192

var (
	systemPrompt = mustRead("prompts/system_prompt.txt")
	userPrompt   = template.Must(template.New("user").Parse(mustRead("prompts/user_prompt.txt")))
)

func mustRead(name string) string {
	b, err := prompts.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Summarize sends the meeting transcript to Ollama and renders the JSON
// notes it returns as Markdown.
func (s *implSummarizer) Summarize(ctx context.Context, m *transcript.Meeting) (*Notes, error) {
	prompt, err := buildPrompt(m)
	if err != nil {
		return nil, err
	}

	// Rough over-estimate: 2.5 characters per token.
	approx := int(float64(len(prompt)+len(systemPrompt)) / 2.5)
	s.logger.Info(ctx, "Approximate tokens: %d", approx)
	if approx > s.cfg.MaxTokens {
		return nil, fmt.Errorf("%w: about %d tokens, limit %d", ErrTranscriptTooLong, approx, s.cfg.MaxTokens)
	}

	// num_ctx has to hold input, thinking and output.
	numCtx := approx * 4
	if numCtx < minContext {
		numCtx = minContext
	}

	stream := false
	req := &api.GenerateRequest{
		Model:   s.cfg.Model,
		Prompt:  prompt,
		System:  systemPrompt,
		Stream:  &stream,
		Think:   thinkValue(s.cfg.Think),
		Options: map[string]any{"num_ctx": numCtx},
	}

	s.logger.Info(ctx, "Generating notes with %s (num_ctx %d)", s.cfg.Model, numCtx)

	var resp api.GenerateResponse
	var response, thinking strings.Builder
	err = s.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		response.WriteString(r.Response)
		thinking.WriteString(r.Thinking)
		if r.Done {
			resp = r
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	notes := &Notes{
		Thinking:     thinking.String(),
		PromptTokens: resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
		Duration:     resp.TotalDuration,
	}
	if notes.Duration > 0 {
		s.logger.Info(ctx, "Response time: %.2f minutes", notes.Duration.Minutes())
	}
	if notes.PromptTokens > 0 {
		s.logger.Info(ctx, "Actual input tokens: %d", notes.PromptTokens)
		if approx <= notes.PromptTokens {
			s.logger.Warn(ctx, "Token estimate %d did not exceed actual input tokens %d", approx, notes.PromptTokens)
		}
	}
	if notes.OutputTokens > 0 {
		s.logger.Info(ctx, "Output tokens: %d", notes.OutputTokens)
	}

	doc, err := extractNotes(response.String())
	if err != nil && notes.Thinking != "" {
		// Some models put the JSON in the thinking block.
		doc, err = extractNotes(notes.Thinking)
	}
	if err != nil {
		return nil, fmt.Errorf("parse notes from model output %q: %w", truncate(response.String(), 500), err)
	}

	notes.Markdown = doc.Markdown(m)
	return notes, nil
}

func buildPrompt(m *transcript.Meeting) (string, error) {
	var b bytes.Buffer
	err := userPrompt.Execute(&b, struct {
		Title        string
		Start        string
		Participants string
		Transcript   string
	}{
		Title:        m.Title,
		Start:        m.StartTime.Format("2006-01-02 15:04:05"),
		Participants: strings.Join(m.Participants, ", "),
		Transcript:   strings.TrimRight(m.Transcript(), "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// thinkValue maps ollama.think to the request field; "false" disables it.
func thinkValue(level string) *api.ThinkValue {
	switch level {
	case "":
		return nil
	case "true":
		return &api.ThinkValue{Value: true}
	case "false":
		return &api.ThinkValue{Value: false}
	default:
		return &api.ThinkValue{Value: level}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
