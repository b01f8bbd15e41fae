// Package asr runs speech recognition over one WAV file per participant.
package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
	"github.com/nguyentantai21042004/meetnotes/pkg/executor"
)

// Transcriber turns a WAV file into timed segments ordered by start.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) ([]transcript.Segment, error)
}

// nonSpeech are markers whisper.cpp emits for stretches without speech.
var nonSpeech = map[string]bool{
	"[BLANK_AUDIO]": true,
	"[SILENCE]":     true,
	"(silence)":     true,
}

type implWhisper struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// CheckModel reports whether the whisper model file exists and is a
// regular file.
func CheckModel(path string) error {
	if path == "" {
		return fmt.Errorf("whisper.model_path is not set")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("whisper model: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("whisper model %s is a directory", path)
	}
	return nil
}

// NewWhisper returns a Transcriber backed by the whisper.cpp CLI.
func NewWhisper(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implWhisper{cfg: cfg, executor: exec, logger: log}
}

// whisperOutput is the document written by whisper.cpp with -oj.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (w *implWhisper) Transcribe(ctx context.Context, wavPath string) ([]transcript.Segment, error) {
	tmp, err := os.MkdirTemp("", "meetnotes-asr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	prefix := filepath.Join(tmp, strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath)))

	w.logger.Info(ctx, "Transcribing with %d threads: %s", w.cfg.Threads, wavPath)

	// -oj: JSON output with per-segment millisecond offsets
	// -l: force language, avoids hallucinated translations
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-oj",
		"-of", prefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	// Run inside tmp so nothing whisper.cpp leaves behind lands in the meeting folder.
	if _, err := w.executor.ExecuteInDir(ctx, tmp, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(prefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	segs, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}
	w.logger.Info(ctx, "Transcription completed: %s (%d segments)", filepath.Base(wavPath), len(segs))
	return segs, nil
}

func parseWhisperJSON(data []byte) ([]transcript.Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segs := make([]transcript.Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" || nonSpeech[text] {
			continue
		}
		segs = append(segs, transcript.Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  text,
		})
	}
	return segs, nil
}
