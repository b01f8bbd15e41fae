// Package audio wraps ffmpeg and ffprobe: recordings are converted to the
// 16 kHz mono WAV the recognizer expects, split recordings are joined, and
// container metadata is read for offset alignment.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/discovery"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
	"github.com/nguyentantai21042004/meetnotes/pkg/executor"
)

// CombinedDir is created inside the audio record folder for joined recordings.
const CombinedDir = "Combined"

// ErrNoCreationTime is returned when a container has no creation_time tag.
var ErrNoCreationTime = errors.New("creation time not found")

type Converter struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

func NewConverter(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) *Converter {
	return &Converter{cfg: cfg, executor: exec, logger: log}
}

// Prepare converts every speaker's recordings and returns one stream per
// speaker, in the layout's discovery order.
func (c *Converter) Prepare(ctx context.Context, layout *discovery.Layout) ([]transcript.AudioStream, error) {
	streams := make([]transcript.AudioStream, 0, len(layout.Speakers))
	for _, sp := range layout.Speakers {
		wavs := make([]string, 0, len(sp.Files))
		for _, f := range sp.Files {
			wav, err := c.ToWAV(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("convert %s: %w", filepath.Base(f), err)
			}
			wavs = append(wavs, wav)
		}

		path := wavs[0]
		if len(wavs) > 1 {
			c.logger.Info(ctx, "Split recording detected for %s, combining %d files", sp.Name, len(wavs))
			path = filepath.Join(layout.AudioRecordDir, CombinedDir, "audio"+sp.Name+"_combined.wav")
			if err := c.Concat(ctx, wavs, path); err != nil {
				return nil, fmt.Errorf("combine recordings of %s: %w", sp.Name, err)
			}
		}

		streams = append(streams, transcript.AudioStream{
			ID:      sp.Name,
			Path:    path,
			Sources: append([]string(nil), sp.Files...),
		})
	}
	return streams, nil
}

// ToWAV converts src next to itself and returns the WAV path. An existing
// WAV is reused.
func (c *Converter) ToWAV(ctx context.Context, src string) (string, error) {
	if strings.EqualFold(filepath.Ext(src), ".wav") {
		return src, nil
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".wav"
	if _, err := os.Stat(dst); err == nil {
		c.logger.Debug(ctx, "Already converted: %s", dst)
		return dst, nil
	}

	c.logger.Info(ctx, "Converting: %s", src)

	// -ac/-ar: mono at the recognizer's sample rate
	args := []string{
		"-i", src,
		"-vn",
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		"-y",
		dst,
	}
	if _, err := c.executor.Execute(ctx, c.cfg.Binary, args...); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("ffmpeg convert: %w", err)
	}
	return dst, nil
}

// Concat joins wavs, in order, into dst. An existing dst is reused.
func (c *Converter) Concat(ctx context.Context, wavs []string, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		c.logger.Info(ctx, "Combined file already exists, skipping: %s", dst)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create combined dir: %w", err)
	}

	if len(wavs) == 1 {
		return copyFile(wavs[0], dst)
	}

	list, err := os.CreateTemp("", "meetnotes-concat-*.txt")
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(list.Name())

	for _, w := range wavs {
		abs, err := filepath.Abs(w)
		if err != nil {
			list.Close()
			return err
		}
		// ffmpeg concat demuxer quoting: ' becomes '\''
		fmt.Fprintf(list, "file '%s'\n", strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`))
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list.Name(),
		"-c", "copy",
		dst,
	}
	if _, err := c.executor.Execute(ctx, c.cfg.Binary, args...); err != nil {
		os.Remove(dst)
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

// CreationTime reads the creation_time tag of a recording with ffprobe.
func (c *Converter) CreationTime(ctx context.Context, path string) (time.Time, error) {
	out, err := c.executor.Execute(ctx, c.cfg.ProbeBinary,
		"-v", "quiet",
		"-show_entries", "format_tags=creation_time",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("ffprobe: %w", err)
	}

	s := strings.TrimSpace(out)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoCreationTime)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse creation time %q: %w", s, err)
	}
	return t, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
