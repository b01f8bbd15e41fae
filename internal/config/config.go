package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths" toml:"paths"`
	Meeting     MeetingConfig     `yaml:"meeting" toml:"meeting"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg" toml:"ffmpeg"`
	Whisper     WhisperConfig     `yaml:"whisper" toml:"whisper"`
	Ollama      OllamaConfig      `yaml:"ollama" toml:"ollama"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Watch       WatchConfig       `yaml:"watch" toml:"watch"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Performance PerformanceConfig `yaml:"performance" toml:"performance"`
}

type PathsConfig struct {
	// Recordings is the root watched for new meeting folders.
	Recordings string `yaml:"recordings" toml:"recordings"`
	// Output is where per-meeting result folders are created.
	Output string `yaml:"output" toml:"output"`
}

type MeetingConfig struct {
	StartTime        string             `yaml:"start_time" toml:"start_time"`
	AudioRecordDir   string             `yaml:"audio_record_dir" toml:"audio_record_dir"`
	SilenceThreshold float64            `yaml:"silence_threshold" toml:"silence_threshold"` // seconds
	OffsetStrategy   string             `yaml:"offset_strategy" toml:"offset_strategy"`
	Offsets          map[string]float64 `yaml:"offsets" toml:"offsets"` // seconds, by speaker
	StrictOffsets    bool               `yaml:"strict_offsets" toml:"strict_offsets"`
	Overwrite        bool               `yaml:"overwrite" toml:"overwrite"`
}

type FFmpegConfig struct {
	Binary      string `yaml:"binary" toml:"binary"`
	ProbeBinary string `yaml:"probe_binary" toml:"probe_binary"`
	SampleRate  int    `yaml:"sample_rate" toml:"sample_rate"`
	Channels    int    `yaml:"channels" toml:"channels"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path" toml:"model_path"`
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	Language   string `yaml:"language" toml:"language"`
	Prompt     string `yaml:"prompt" toml:"prompt"`
	Threads    int    `yaml:"threads" toml:"threads"`
}

type OllamaConfig struct {
	Host         string `yaml:"host" toml:"host"`
	Model        string `yaml:"model" toml:"model"`
	Think        string `yaml:"think" toml:"think"`
	MaxTokens    int    `yaml:"max_tokens" toml:"max_tokens"`
	SaveThinking bool   `yaml:"save_thinking" toml:"save_thinking"`
}

type OutputConfig struct {
	Docx bool `yaml:"docx" toml:"docx"`
	// TranscriptAppendix appends the timestamped transcript to the notes.
	TranscriptAppendix bool `yaml:"transcript_appendix" toml:"transcript_appendix"`
}

type WatchConfig struct {
	SettleDelay float64 `yaml:"settle_delay" toml:"settle_delay"` // seconds
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" toml:"max_concurrent"`
}

// Offset strategies understood by meeting.offset_strategy.
const (
	OffsetPadded       = "padded"
	OffsetStatic       = "static"
	OffsetCreationTime = "creation_time"
)

// startTimeLayouts are the accepted forms of meeting.start_time.
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Meeting.SilenceThreshold < 0 {
		return fmt.Errorf("meeting.silence_threshold must not be negative")
	}
	if c.Meeting.StartTime != "" {
		if _, err := ParseStartTime(c.Meeting.StartTime); err != nil {
			return fmt.Errorf("meeting.start_time: %w", err)
		}
	}

	switch c.Meeting.OffsetStrategy {
	case "":
		c.Meeting.OffsetStrategy = OffsetPadded
	case OffsetPadded, OffsetStatic, OffsetCreationTime:
	default:
		return fmt.Errorf("meeting.offset_strategy %q is not one of padded, static, creation_time", c.Meeting.OffsetStrategy)
	}

	switch strings.ToLower(c.Ollama.Think) {
	case "":
		c.Ollama.Think = "high"
	case "low", "medium", "high", "true", "false":
		c.Ollama.Think = strings.ToLower(c.Ollama.Think)
	default:
		return fmt.Errorf("ollama.think %q is not one of low, medium, high, true, false", c.Ollama.Think)
	}

	if c.Paths.Output == "" {
		c.Paths.Output = "Transcripts"
	}
	if c.Meeting.AudioRecordDir == "" {
		c.Meeting.AudioRecordDir = "Audio Record"
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 1
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = "gpt-oss:20b"
	}
	if c.Ollama.MaxTokens == 0 {
		c.Ollama.MaxTokens = 128000
	}
	if c.Watch.SettleDelay == 0 {
		c.Watch.SettleDelay = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

// Silence returns meeting.silence_threshold as a duration.
func (c *Config) Silence() time.Duration {
	return seconds(c.Meeting.SilenceThreshold)
}

// SettleDelay returns watch.settle_delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return seconds(c.Watch.SettleDelay)
}

// ParseStartTime parses an ISO 8601 wall-clock time, with either a space or
// a "T" between date and time.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q, expected YYYY-MM-DD HH:MM:SS", s)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
