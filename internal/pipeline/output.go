package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/summarizer"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

const noThinking = "No thought process returned."

// artifacts are the files of one run, all named after the meeting start.
type artifacts struct {
	transcript string
	json       string
	thinking   string
	notes      string
	docx       string
}

func artifactPaths(dir string, start time.Time) artifacts {
	stamp := start.Format("20060102_1504")
	tr := filepath.Join(dir, "transcript_"+stamp)
	notes := filepath.Join(dir, "notes_"+stamp)
	return artifacts{
		transcript: tr + ".txt",
		json:       tr + ".json",
		thinking:   tr + "_thought_process.txt",
		notes:      notes + ".md",
		docx:       notes + ".docx",
	}
}

// existingMeeting loads the meeting saved by an earlier run, or returns
// nil when the run has to transcribe.
func (p *implPipeline) existingMeeting(ctx context.Context, files artifacts) (*transcript.Meeting, error) {
	if p.cfg.Meeting.Overwrite || !fileExists(files.transcript) {
		return nil, nil
	}
	if !fileExists(files.json) {
		p.logger.Warn(ctx, "Transcript %s has no %s, transcribing again", files.transcript, filepath.Base(files.json))
		return nil, nil
	}

	data, err := os.ReadFile(files.json)
	if err != nil {
		return nil, fmt.Errorf("read saved meeting: %w", err)
	}
	var m transcript.Meeting
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse saved meeting %s: %w", files.json, err)
	}

	p.logger.Info(ctx, "Transcript already exists at %s, skipping transcription", files.transcript)
	p.logger.Info(ctx, "Continuing to generate notes")
	return &m, nil
}

func (p *implPipeline) writeTranscript(ctx context.Context, files artifacts, m *transcript.Meeting) error {
	if err := os.MkdirAll(filepath.Dir(files.transcript), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode meeting: %w", err)
	}
	if err := writeFile(files.json, data); err != nil {
		return err
	}
	if err := writeFile(files.transcript, []byte(renderTranscript(m))); err != nil {
		return err
	}

	p.logger.Info(ctx, "Text transcript saved to %s", files.transcript)
	return nil
}

func (p *implPipeline) writeNotes(ctx context.Context, files artifacts, m *transcript.Meeting, notes *summarizer.Notes, res *Result) error {
	if p.cfg.Ollama.SaveThinking {
		thinking := notes.Thinking
		if strings.TrimSpace(thinking) == "" {
			thinking = noThinking
		}
		if err := writeFile(files.thinking, []byte(thinking)); err != nil {
			return err
		}
		res.ThinkingPath = files.thinking
	}

	md := notes.Markdown
	if p.cfg.Output.TranscriptAppendix {
		md = strings.TrimRight(md, "\n") + "\n" + renderAppendix(m)
	}
	if err := writeFile(files.notes, []byte(md)); err != nil {
		return err
	}
	res.NotesPath = files.notes
	p.logger.Info(ctx, "Meeting notes saved to %s", files.notes)

	if p.cfg.Output.Docx {
		title := m.Title
		if title == "" {
			title = "Meeting Notes"
		}
		if err := summarizer.MarkdownToDocx(title, md, files.docx); err != nil {
			return fmt.Errorf("write docx: %w", err)
		}
		res.DocxPath = files.docx
		p.logger.Info(ctx, "DOCX meeting notes saved to %s", files.docx)
	}
	return nil
}

// renderTranscript is the text transcript file: a start-time header and
// one line per turn.
func renderTranscript(m *transcript.Meeting) string {
	return fmt.Sprintf("Meeting Start Date and Time: %s\n", m.StartTime.Format("2006-01-02 15:04:05")) + m.Transcript()
}

// renderAppendix lists the turns as Markdown, marking crosstalk.
func renderAppendix(m *transcript.Meeting) string {
	var b strings.Builder
	b.WriteString("\n## Transcript\n")
	for i, t := range m.Turns {
		mark := ""
		if m.Overlaps(i) {
			mark = " (crosstalk)"
		}
		fmt.Fprintf(&b, "- `[%s]` **%s**%s: %s\n", m.Clock(t).Format("15:04:05"), t.Speaker, mark, t.Text)
	}
	return b.String()
}

// writeFile replaces path through a temp file in the same directory so a
// failed write never leaves a truncated artifact.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
