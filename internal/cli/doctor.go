package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meetnotes/internal/asr"
	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/summarizer"
)

// ErrPrerequisites is returned by doctor when a check fails.
var ErrPrerequisites = errors.New("some prerequisites are missing")

func NewDoctorCmd(deps *Dependencies, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			// Report every problem instead of stopping at validation.
			verr := cfg.Validate()

			out := cmd.OutOrStdout()
			ok := true
			check := func(name string, err error, detail string) {
				if err != nil {
					ok = false
					fmt.Fprintf(out, "✗ %s: %v\n", name, err)
					return
				}
				fmt.Fprintf(out, "✓ %s: %s\n", name, detail)
			}

			check("config", verr, "valid")
			for _, tool := range []string{cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary, cfg.Whisper.BinaryPath} {
				path, err := deps.Executor.LookPath(tool)
				check(tool, err, path)
			}
			check("whisper model", asr.CheckModel(cfg.Whisper.ModelPath), cfg.Whisper.ModelPath)
			check("ollama", ping(cmd.Context(), cfg), cfg.Ollama.Model)

			return report(out, ok)
		},
	}
}

func ping(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return summarizer.Ping(ctx, cfg.Ollama)
}

func report(out io.Writer, ok bool) error {
	if !ok {
		fmt.Fprintln(out, "\nSome prerequisites are missing.")
		return ErrPrerequisites
	}
	fmt.Fprintln(out, "\nAll prerequisites met.")
	return nil
}
