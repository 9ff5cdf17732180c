// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 12310, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Server.BatchWorkers)
	assert.Equal(t, 100, cfg.Server.MaxBatchItems)
	assert.True(t, cfg.Corpus.Watch)
	assert.Equal(t, 10, cfg.Retrieval.MaxLocalRules)
	assert.Equal(t, 10, cfg.Retrieval.MaxGeneralRules)
	assert.Equal(t, "ollama", cfg.Model.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "citecheck.yaml")
	content := `
server:
  port: 9000
  batch_workers: 8
  max_batch_items: 50
corpus:
  path: /data/corpus.json
  watch: false
retrieval:
  max_local_rules: 5
  max_general_rules: 3
model:
  backend: anthropic
  name: claude-sonnet-4-20250514
  requests_per_second: 0.5
  burst: 1
  cooldown_seconds: 60
logging:
  level: debug
  json: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Server.BatchWorkers)
	assert.Equal(t, "/data/corpus.json", cfg.Corpus.Path)
	assert.False(t, cfg.Corpus.Watch)
	assert.Equal(t, 5, cfg.Retrieval.MaxLocalRules)
	assert.Equal(t, 3, cfg.Retrieval.MaxGeneralRules)
	assert.Equal(t, "anthropic", cfg.Model.Backend)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model.Name)
	assert.Equal(t, 0.5, cfg.Model.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "citecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	// Untouched sections keep default values.
	assert.Equal(t, 4, cfg.Server.BatchWorkers)
	assert.Equal(t, "ollama", cfg.Model.Backend)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CITECHECK_PORT", "7777")
	t.Setenv("CITECHECK_CORPUS_PATH", "/env/corpus.json")
	t.Setenv("CITECHECK_CORPUS_WATCH", "false")
	t.Setenv("LLM_BACKEND_TYPE", "openai")
	t.Setenv("CITECHECK_MODEL_NAME", "gpt-4o")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	dir := t.TempDir()
	path := filepath.Join(dir, "citecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port, "env beats file")
	assert.Equal(t, "/env/corpus.json", cfg.Corpus.Path)
	assert.False(t, cfg.Corpus.Watch)
	assert.Equal(t, "openai", cfg.Model.Backend)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
}

func TestLoad_InvalidEnvValueIgnored(t *testing.T) {
	t.Setenv("CITECHECK_PORT", "not-a-number")

	dir := t.TempDir()
	path := filepath.Join(dir, "citecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"huge port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero workers", func(c *Config) { c.Server.BatchWorkers = 0 }},
		{"empty corpus path", func(c *Config) { c.Corpus.Path = "" }},
		{"zero local quota", func(c *Config) { c.Retrieval.MaxLocalRules = 0 }},
		{"unknown backend", func(c *Config) { c.Model.Backend = "palm" }},
		{"zero rate", func(c *Config) { c.Model.RequestsPerSecond = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_ValidationFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "citecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  backend: palm\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
