// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the CiteCheck configuration shared by the HTTP
// service and the CLI: a YAML file with environment-variable overrides on
// top and struct-tag validation before anything consumes it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// configValidate is the shared validator for config structs.
var configValidate = validator.New()

// Config is the full CiteCheck configuration tree.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Model     ModelConfig     `yaml:"model"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig sets the HTTP surface.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=1,lte=65535"`

	// BatchWorkers bounds the concurrent reviews a batch request fans
	// out to; MaxBatchItems bounds the batch size itself.
	BatchWorkers  int `yaml:"batch_workers" validate:"gte=1,lte=64"`
	MaxBatchItems int `yaml:"max_batch_items" validate:"gte=1,lte=256"`
}

// CorpusConfig locates the style rule corpus.
type CorpusConfig struct {
	Path string `yaml:"path" validate:"required"`

	// Watch reloads the corpus when the file changes on disk.
	Watch bool `yaml:"watch"`
}

// RetrievalConfig sets the per-corpus rule quotas for a review.
type RetrievalConfig struct {
	MaxLocalRules   int `yaml:"max_local_rules" validate:"gte=1,lte=50"`
	MaxGeneralRules int `yaml:"max_general_rules" validate:"gte=1,lte=50"`
}

// ModelConfig selects and throttles the review model backend.
type ModelConfig struct {
	// Backend can be "ollama", "openai", or "anthropic".
	Backend string `yaml:"backend" validate:"oneof=ollama openai anthropic"`

	// Name overrides the backend's default model when set.
	Name string `yaml:"name,omitempty"`

	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" validate:"gte=1"`
	CooldownSeconds   int     `yaml:"cooldown_seconds" validate:"gte=0"`
}

// LoggingConfig mirrors pkg/logging's knobs.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir,omitempty"`
	JSON  bool   `yaml:"json"`
}

// TelemetryConfig points the OTLP trace exporter somewhere.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:          12310,
			BatchWorkers:  4,
			MaxBatchItems: 100,
		},
		Corpus: CorpusConfig{
			Path:  "style_corpus.json",
			Watch: true,
		},
		Retrieval: RetrievalConfig{
			MaxLocalRules:   10,
			MaxGeneralRules: 10,
		},
		Model: ModelConfig{
			Backend:           "ollama",
			RequestsPerSecond: 1,
			Burst:             2,
			CooldownSeconds:   30,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load reads the configuration. An explicit path must exist; an empty path
// falls back to CITECHECK_CONFIG, ./citecheck.yaml, then
// ~/.citecheck/citecheck.yaml, and plain defaults when none is found.
// Environment overrides are applied after the file, validation last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = searchPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the struct tags over the whole tree.
func (c *Config) Validate() error {
	return configValidate.Struct(c)
}

// searchPath returns the first config file that exists among the default
// locations, or empty.
func searchPath() string {
	if env := os.Getenv("CITECHECK_CONFIG"); env != "" {
		return env
	}
	candidates := []string{"citecheck.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".citecheck", "citecheck.yaml"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// applyEnv lets deployment environments override the file without editing
// it, which is how the services are configured in compose files.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CITECHECK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CITECHECK_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("CITECHECK_CORPUS_WATCH"); v != "" {
		if watch, err := strconv.ParseBool(v); err == nil {
			cfg.Corpus.Watch = watch
		}
	}
	if v := os.Getenv("LLM_BACKEND_TYPE"); v != "" {
		cfg.Model.Backend = v
	}
	if v := os.Getenv("CITECHECK_MODEL_NAME"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("CITECHECK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
}
