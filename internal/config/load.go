package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default returns a configuration with every optional value filled in.
// whisper.model_path still has to be provided.
func Default() *Config {
	return &Config{
		Meeting: MeetingConfig{
			SilenceThreshold: 0.5,
			OffsetStrategy:   OffsetPadded,
		},
		Ollama: OllamaConfig{
			SaveThinking: true,
		},
	}
}

// Load reads a config file with Read and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes a YAML or TOML config file (chosen by extension) over the
// defaults and applies .env and MEETNOTES_* environment overrides. The
// result is not validated, so callers can layer flags on top first.
func Read(path string) (*Config, error) {
	return read(path, false)
}

// ReadOptional is Read, except that a missing file yields the defaults.
func ReadOptional(path string) (*Config, error) {
	return read(path, true)
}

func read(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse toml config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
	}
	return nil
}

// loadDotEnv loads ./.env when present. Variables already set win.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEETNOTES_RECORDINGS_DIR"); v != "" {
		cfg.Paths.Recordings = v
	}
	if v := os.Getenv("MEETNOTES_OUTPUT_DIR"); v != "" {
		cfg.Paths.Output = v
	}
	if v := os.Getenv("MEETNOTES_WHISPER_MODEL"); v != "" {
		cfg.Whisper.ModelPath = v
	}
	if v := os.Getenv("MEETNOTES_WHISPER_BINARY"); v != "" {
		cfg.Whisper.BinaryPath = v
	}
	if v := os.Getenv("MEETNOTES_OLLAMA_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := os.Getenv("MEETNOTES_OLLAMA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("MEETNOTES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
