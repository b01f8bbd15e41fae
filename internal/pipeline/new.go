package pipeline

import (
	"github.com/nguyentantai21042004/meetnotes/internal/asr"
	"github.com/nguyentantai21042004/meetnotes/internal/audio"
	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/summarizer"
	"github.com/nguyentantai21042004/meetnotes/pkg/executor"
)

type implPipeline struct {
	cfg         *config.Config
	executor    executor.Executor
	converter   *audio.Converter
	transcriber asr.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger
}

// New creates a Pipeline. cfg must already be validated.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Pipeline, error) {
	sum, err := summarizer.New(cfg.Ollama, log)
	if err != nil {
		return nil, err
	}

	return &implPipeline{
		cfg:         cfg,
		executor:    exec,
		converter:   audio.NewConverter(cfg.FFmpeg, exec, log),
		transcriber: asr.NewWhisper(cfg.Whisper, exec, log),
		summarizer:  sum,
		logger:      log,
	}, nil
}
