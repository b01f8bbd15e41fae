package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/discovery"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
	"github.com/nguyentantai21042004/meetnotes/pkg/executor/executortest"
)

var ffmpegCfg = config.FFmpegConfig{Binary: "ffmpeg", ProbeBinary: "ffprobe", SampleRate: 16000, Channels: 1}

// fakeFFmpeg creates the output file (last argument) of every ffmpeg call.
func fakeFFmpeg(call executortest.Call) (string, error) {
	if call.Name != "ffmpeg" {
		return "", nil
	}
	out := call.Args[len(call.Args)-1]
	return "", os.WriteFile(out, []byte("RIFF"), 0644)
}

func newConverter(fake *executortest.Fake) *Converter {
	return NewConverter(ffmpegCfg, fake, logger.NewWithWriter(io.Discard, "error", "text"))
}

func TestToWAV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "audioAlice11000000001.m4a")
	if err := os.WriteFile(src, nil, 0644); err != nil {
		t.Fatal(err)
	}

	fake := &executortest.Fake{Handler: fakeFFmpeg}
	c := newConverter(fake)

	got, err := c.ToWAV(context.Background(), src)
	if err != nil {
		t.Fatalf("ToWAV() error = %v", err)
	}
	want := filepath.Join(dir, "audioAlice11000000001.wav")
	if got != want {
		t.Errorf("ToWAV() = %q, want %q", got, want)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d ffmpeg calls, want 1", len(calls))
	}
	if !strings.Contains(calls[0].String(), "-ac 1 -ar 16000") {
		t.Errorf("ffmpeg args %q missing mono 16 kHz flags", calls[0])
	}

	// Second conversion reuses the WAV.
	if _, err := c.ToWAV(context.Background(), src); err != nil {
		t.Fatalf("ToWAV() second call error = %v", err)
	}
	if n := len(fake.Calls()); n != 1 {
		t.Errorf("got %d ffmpeg calls after reuse, want 1", n)
	}
}

func TestToWAVPassesThroughWAV(t *testing.T) {
	fake := &executortest.Fake{Handler: fakeFFmpeg}
	got, err := newConverter(fake).ToWAV(context.Background(), "/x/a.WAV")
	if err != nil || got != "/x/a.WAV" {
		t.Errorf("ToWAV() = %q, %v", got, err)
	}
	if len(fake.Calls()) != 0 {
		t.Error("ToWAV() ran ffmpeg for a WAV input")
	}
}

func TestToWAVFailure(t *testing.T) {
	fake := &executortest.Fake{Handler: func(executortest.Call) (string, error) {
		return "", errors.New("exit status 1")
	}}
	if _, err := newConverter(fake).ToWAV(context.Background(), filepath.Join(t.TempDir(), "a.m4a")); err == nil {
		t.Error("ToWAV() expected error")
	}
}

func TestPrepare(t *testing.T) {
	dir := t.TempDir()
	rec := filepath.Join(dir, "Audio Record")
	files := []string{
		filepath.Join(rec, "audioAlice11000000001.m4a"),
		filepath.Join(rec, "audioAlice12000000001.m4a"),
		filepath.Join(rec, "audioBob11000000002.m4a"),
	}
	if err := os.MkdirAll(rec, 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(f, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	layout := &discovery.Layout{
		Folder:         dir,
		AudioRecordDir: rec,
		Speakers: []discovery.Speaker{
			{Name: "Alice", Files: files[:2]},
			{Name: "Bob", Files: files[2:]},
		},
	}

	fake := &executortest.Fake{Handler: fakeFFmpeg}
	streams, err := newConverter(fake).Prepare(context.Background(), layout)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	want := []transcript.AudioStream{
		{ID: "Alice", Path: filepath.Join(rec, CombinedDir, "audioAlice_combined.wav"), Sources: files[:2]},
		{ID: "Bob", Path: filepath.Join(rec, "audioBob11000000002.wav"), Sources: files[2:]},
	}
	if diff := cmp.Diff(want, streams); diff != "" {
		t.Errorf("Prepare() mismatch (-want +got):\n%s", diff)
	}

	var concat int
	for _, c := range fake.Calls() {
		if strings.Contains(c.String(), "-f concat") {
			concat++
		}
	}
	if concat != 1 {
		t.Errorf("got %d concat calls, want 1", concat)
	}
}

func TestCreationTime(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    time.Time
		wantErr error
	}{
		{name: "utc tag", out: "2023-01-01T15:04:05.000000Z\n", want: time.Date(2023, 1, 1, 15, 4, 5, 0, time.UTC)},
		{name: "missing tag", out: "\n", wantErr: ErrNoCreationTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &executortest.Fake{Handler: func(executortest.Call) (string, error) { return tt.out, nil }}
			got, err := newConverter(fake).CreationTime(context.Background(), "a.m4a")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreationTime() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreationTime() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("CreationTime() = %v, want %v", got, tt.want)
			}
			if calls := fake.Calls(); len(calls) != 1 || calls[0].Name != "ffprobe" {
				t.Errorf("calls = %v, want one ffprobe call", calls)
			}
		})
	}
}
