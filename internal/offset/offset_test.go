package offset

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

type fakeProber map[string]time.Time

func (f fakeProber) CreationTime(_ context.Context, path string) (time.Time, error) {
	if t, ok := f[path]; ok {
		return t, nil
	}
	return time.Time{}, errors.New("creation_time tag not found")
}

func quietLog() logger.Logger {
	return logger.NewWithWriter(io.Discard, "error", "text")
}

func TestResolve(t *testing.T) {
	streams := []transcript.AudioStream{{ID: "alice"}, {ID: "bob"}}
	src := StaticSeconds(map[string]float64{"alice": 2.5})

	got, err := Resolve(context.Background(), streams, src, false, quietLog())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []transcript.AudioStream{
		{ID: "alice", Offset: 2500 * time.Millisecond},
		{ID: "bob", Offset: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	if streams[0].Offset != 0 {
		t.Error("Resolve() modified its input")
	}
}

func TestResolveStrict(t *testing.T) {
	streams := []transcript.AudioStream{{ID: "alice"}, {ID: "bob"}}
	src := Static{"alice": time.Second}

	_, err := Resolve(context.Background(), streams, src, true, quietLog())
	var missing *transcript.MissingOffsetError
	if !errors.As(err, &missing) {
		t.Fatalf("Resolve() error = %v, want MissingOffsetError", err)
	}
	if missing.Stream != "bob" {
		t.Errorf("Stream = %q, want bob", missing.Stream)
	}
	if !errors.Is(err, ErrNoOffset) {
		t.Error("MissingOffsetError does not wrap ErrNoOffset")
	}
}

func TestPadded(t *testing.T) {
	d, err := Padded{}.Offset(context.Background(), transcript.AudioStream{ID: "x"})
	if err != nil || d != 0 {
		t.Errorf("Padded.Offset() = %s, %v; want 0, nil", d, err)
	}
}

func TestCreationTime(t *testing.T) {
	start := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	src := &CreationTime{
		Prober: fakeProber{
			"alice.m4a": start.Add(3 * time.Second),
			"bob.wav":   start.Add(-time.Second),
		},
		MeetingStart: start,
	}

	tests := []struct {
		name    string
		stream  transcript.AudioStream
		want    time.Duration
		wantErr bool
	}{
		{
			name:   "uses original source",
			stream: transcript.AudioStream{ID: "alice", Path: "alice.wav", Sources: []string{"alice.m4a"}},
			want:   3 * time.Second,
		},
		{
			name:   "falls back to path",
			stream: transcript.AudioStream{ID: "bob", Path: "bob.wav"},
			want:   -time.Second,
		},
		{
			name:    "no metadata",
			stream:  transcript.AudioStream{ID: "carol", Path: "carol.wav"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Offset(context.Background(), tt.stream)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Offset() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNoOffset) {
				t.Errorf("error %v does not wrap ErrNoOffset", err)
			}
			if got != tt.want {
				t.Errorf("Offset() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestChain(t *testing.T) {
	chain := Chain{Static{"alice": time.Second}, Padded{}}

	d, err := chain.Offset(context.Background(), transcript.AudioStream{ID: "alice"})
	if err != nil || d != time.Second {
		t.Errorf("Chain.Offset(alice) = %s, %v", d, err)
	}
	d, err = chain.Offset(context.Background(), transcript.AudioStream{ID: "bob"})
	if err != nil || d != 0 {
		t.Errorf("Chain.Offset(bob) = %s, %v", d, err)
	}

	_, err = Chain{Static{}}.Offset(context.Background(), transcript.AudioStream{ID: "bob"})
	if !errors.Is(err, ErrNoOffset) {
		t.Errorf("Chain of misses error = %v, want ErrNoOffset", err)
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := SourceFunc(func(ctx context.Context, _ transcript.AudioStream) (time.Duration, error) {
		cancel()
		return 0, ctx.Err()
	})

	_, err := Resolve(ctx, []transcript.AudioStream{{ID: "alice"}}, src, false, quietLog())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{Padded{}, "padded (all zero)"},
		{Static{"a": 0, "b": 0}, "static (2 configured)"},
		{&CreationTime{}, "file creation time"},
		{Chain{Padded{}, Static{}}, "chain of 2 sources"},
		{SourceFunc(nil), "offset.SourceFunc"},
	}
	for _, tt := range tests {
		if got := Describe(tt.src); got != tt.want {
			t.Errorf("Describe(%T) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
