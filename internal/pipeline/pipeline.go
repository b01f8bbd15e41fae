package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meetnotes/internal/asr"
	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/discovery"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/offset"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// fallbackStart is used when neither the flag nor the folder name gives
// the meeting start.
var fallbackStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)

// Process runs one meeting folder end to end. An existing transcript is
// summarized again instead of re-transcribing, unless meeting.overwrite is
// set. Every failure is a *StageError.
func (p *implPipeline) Process(ctx context.Context, folder string) (*Result, error) {
	began := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting meeting: %s", folder)
	p.logger.Info(ctx, "========================================")

	start := p.startTime(ctx, folder)
	res := &Result{RunID: runID, OutputDir: p.outputDir(folder)}
	files := artifactPaths(res.OutputDir, start)
	res.TranscriptPath = files.transcript
	res.JSONPath = files.json

	meeting, err := p.existingMeeting(ctx, files)
	if err != nil {
		return nil, p.fail(ctx, StageWrite, folder, err)
	}

	if meeting != nil {
		res.Reused = true
	} else {
		meeting, err = p.transcribeMeeting(ctx, folder, start)
		if err != nil {
			return nil, err
		}
		wctx := logger.WithStage(ctx, StageWrite)
		if err := p.writeTranscript(wctx, files, meeting); err != nil {
			return nil, p.fail(ctx, StageWrite, folder, err)
		}
	}
	res.Meeting = meeting

	sctx := logger.WithStage(ctx, StageSummarize)
	notes, err := p.summarizer.Summarize(sctx, meeting)
	if err != nil {
		return nil, p.fail(ctx, StageSummarize, folder, err)
	}
	p.logger.Info(sctx, "Generated meeting notes")

	wctx := logger.WithStage(ctx, StageWrite)
	if err := p.writeNotes(wctx, files, meeting, notes, res); err != nil {
		return nil, p.fail(ctx, StageWrite, folder, err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript: %s", res.TranscriptPath)
	p.logger.Info(ctx, "Notes: %s", res.NotesPath)
	p.logger.Info(ctx, "Processing time: %s", time.Since(began).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return res, nil
}

// transcribeMeeting runs every stage up to and including interleaving.
// Nothing is written to the output folder here.
func (p *implPipeline) transcribeMeeting(ctx context.Context, folder string, start time.Time) (*transcript.Meeting, error) {
	pctx := logger.WithStage(ctx, StagePreflight)
	if err := p.preflight(pctx); err != nil {
		return nil, p.fail(ctx, StagePreflight, folder, err)
	}

	dctx := logger.WithStage(ctx, StageDiscover)
	layout, err := discovery.Discover(dctx, folder, p.cfg.Meeting.AudioRecordDir, p.logger)
	if err != nil {
		return nil, p.fail(ctx, StageDiscover, folder, err)
	}
	p.logger.Info(dctx, "Found %d speakers", len(layout.Speakers))

	cctx := logger.WithStage(ctx, StageConvert)
	streams, err := p.converter.Prepare(cctx, layout)
	if err != nil {
		return nil, p.fail(ctx, StageConvert, folder, err)
	}
	p.logger.Info(cctx, "Detected audio files:")
	for _, st := range streams {
		p.logger.Info(cctx, "  %s: %s", st.ID, st.Path)
	}

	octx := logger.WithStage(ctx, StageOffset)
	src := p.offsetSource(start)
	p.logger.Info(octx, "Offset source: %s", offset.Describe(src))
	streams, err = offset.Resolve(octx, streams, src, p.cfg.Meeting.StrictOffsets, p.logger)
	if err != nil {
		return nil, p.fail(ctx, StageOffset, folder, err)
	}

	tctx := logger.WithStage(ctx, StageTranscribe)
	transcripts, err := p.transcribeAll(tctx, streams)
	if err != nil {
		return nil, p.fail(ctx, StageTranscribe, folder, err)
	}

	ictx := logger.WithStage(ctx, StageInterleave)
	meeting, err := transcript.Build(transcripts, transcript.BuildOptions{
		Title:     discovery.Title(folder),
		StartTime: start,
		Silence:   p.cfg.Silence(),
	})
	if err != nil {
		return nil, p.fail(ctx, StageInterleave, folder, err)
	}
	p.logger.Info(ictx, "Interleaved %d turns from %d speakers over %s",
		len(meeting.Turns), len(meeting.Participants), meeting.Duration().Round(time.Second))

	return meeting, nil
}

// preflight checks that the external tools of this run are installed and
// the whisper model is in place.
func (p *implPipeline) preflight(ctx context.Context) error {
	tools := []string{p.cfg.FFmpeg.Binary, p.cfg.Whisper.BinaryPath}
	if p.cfg.Meeting.OffsetStrategy == config.OffsetCreationTime {
		tools = append(tools, p.cfg.FFmpeg.ProbeBinary)
	}
	for _, tool := range tools {
		path, err := p.executor.LookPath(tool)
		if err != nil {
			return fmt.Errorf("%s not found: %w", tool, err)
		}
		p.logger.Debug(ctx, "Using %s", path)
	}
	return asr.CheckModel(p.cfg.Whisper.ModelPath)
}

func (p *implPipeline) startTime(ctx context.Context, folder string) time.Time {
	if p.cfg.Meeting.StartTime != "" {
		if t, err := config.ParseStartTime(p.cfg.Meeting.StartTime); err == nil {
			p.logger.Info(ctx, "Using provided start time: %s", t.Format("2006-01-02 15:04:05"))
			return t
		}
	}
	if t, ok := discovery.StartTimeFromFolder(folder); ok {
		p.logger.Info(ctx, "Using start time from folder name: %s", t.Format("2006-01-02 15:04:05"))
		return t
	}
	p.logger.Warn(ctx, "No start time provided, using default: %s", fallbackStart.Format("2006-01-02 15:04:05"))
	return fallbackStart
}

// outputDir is <paths.output>/<meeting folder name>.
func (p *implPipeline) outputDir(folder string) string {
	return filepath.Join(p.cfg.Paths.Output, filepath.Base(filepath.Clean(folder)))
}

// offsetSource builds the source for meeting.offset_strategy. Offsets
// listed in meeting.offsets win over the creation-time probe.
func (p *implPipeline) offsetSource(start time.Time) offset.Source {
	switch p.cfg.Meeting.OffsetStrategy {
	case config.OffsetStatic:
		return offset.StaticSeconds(p.cfg.Meeting.Offsets)
	case config.OffsetCreationTime:
		probe := &offset.CreationTime{Prober: p.converter, MeetingStart: start}
		if len(p.cfg.Meeting.Offsets) == 0 {
			return probe
		}
		return offset.Chain{offset.StaticSeconds(p.cfg.Meeting.Offsets), probe}
	default:
		return offset.Padded{}
	}
}

func (p *implPipeline) fail(ctx context.Context, stage, folder string, err error) error {
	p.logger.Error(logger.WithStage(ctx, stage), "Failed: %v", err)
	return &StageError{Stage: stage, Folder: folder, Err: err}
}
