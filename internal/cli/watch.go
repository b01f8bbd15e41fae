package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meetnotes/internal/pipeline"
	"github.com/nguyentantai21042004/meetnotes/internal/watcher"
)

func NewWatchCmd(deps *Dependencies, configPath *string) *cobra.Command {
	var recordings string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process every new meeting folder under the recordings folder",
		Long: "Watch paths.recordings and run the pipeline on each meeting folder created there, " +
			"once it has settled for watch.settle_delay seconds. Ctrl+C waits for running meetings.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("recordings") {
				cfg.Paths.Recordings = recordings
			}
			if cfg.Paths.Recordings == "" {
				return fmt.Errorf("paths.recordings or --recordings is required")
			}
			// Each meeting's start comes from its folder name.
			cfg.Meeting.StartTime = ""
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			ctx := cmd.Context()
			log := newLogger(deps, cfg)

			for _, dir := range []string{cfg.Paths.Recordings, cfg.Paths.Output} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create directory %s: %w", dir, err)
				}
			}

			p, err := pipeline.New(cfg, deps.Executor, log)
			if err != nil {
				return err
			}

			handler := func(ctx context.Context, folder string) error {
				_, err := p.Process(ctx, folder)
				return err
			}
			w, err := watcher.New(cfg.Paths.Recordings, handler, log, cfg.Performance.MaxConcurrent, cfg.SettleDelay())
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "========================================")
			log.Info(ctx, "meetnotes is watching %s", cfg.Paths.Recordings)
			log.Info(ctx, "Output: %s", cfg.Paths.Output)
			log.Info(ctx, "Whisper: %s (%d threads)", cfg.Whisper.ModelPath, cfg.Whisper.Threads)
			log.Info(ctx, "Ollama model: %s", cfg.Ollama.Model)
			log.Info(ctx, "Press Ctrl+C to stop")
			log.Info(ctx, "========================================")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info(context.Background(), "meetnotes stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&recordings, "recordings", "r", "", "Folder where new meeting folders appear")

	return cmd
}
