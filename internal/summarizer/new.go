package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/nguyentantai21042004/meetnotes/internal/config"
	"github.com/nguyentantai21042004/meetnotes/internal/logger"
)

type implSummarizer struct {
	client *api.Client
	cfg    config.OllamaConfig
	logger logger.Logger
}

// New creates a Summarizer that talks to an Ollama server. An empty
// cfg.Host falls back to OLLAMA_HOST and then to the local default.
func New(cfg config.OllamaConfig, log logger.Logger) (Summarizer, error) {
	client, err := newClient(cfg.Host)
	if err != nil {
		return nil, err
	}
	return &implSummarizer{client: client, cfg: cfg, logger: log}, nil
}

func newClient(host string) (*api.Client, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return client, nil
	}

	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	return api.NewClient(u, http.DefaultClient), nil
}

// Ping checks that the Ollama server answers.
func Ping(ctx context.Context, cfg config.OllamaConfig) error {
	client, err := newClient(cfg.Host)
	if err != nil {
		return err
	}
	if err := client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama not reachable: %w", err)
	}
	return nil
}
