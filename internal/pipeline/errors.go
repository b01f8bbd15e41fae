package pipeline

import (
	"errors"
	"fmt"
)

// Stages of a run, in order.
const (
	StagePreflight  = "preflight"
	StageDiscover   = "discover"
	StageConvert    = "convert"
	StageOffset     = "offset"
	StageTranscribe = "transcribe"
	StageInterleave = "interleave"
	StageWrite      = "write"
	StageSummarize  = "summarize"
)

// StageError reports which stage of a run failed.
type StageError struct {
	Stage  string
	Folder string
	Err    error
}

func (e *StageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Folder != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Folder, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage recorded in err, or "" if err did not come
// from a run.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
