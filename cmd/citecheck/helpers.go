// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/AleutianAI/CiteCheck/pkg/grounding"
	"github.com/AleutianAI/CiteCheck/pkg/llm"
	"github.com/AleutianAI/CiteCheck/pkg/logging"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/telemetry"
	"github.com/AleutianAI/CiteCheck/pkg/ux"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
	"github.com/AleutianAI/CiteCheck/services/citecheck/config"
)

// Exit codes. A review that finds citation errors is a successful run of
// the tool, so it gets its own code the way linters do.
const (
	exitOK     = 0
	exitFlawed = 1
	exitError  = 2
)

var (
	cliConfig config.Config
	cliLogger *logging.Logger

	// stopTelemetry is set when --trace wires the stdout exporters.
	stopTelemetry func(context.Context) error
)

// applyOutputFlags resolves the output mode before any command renders.
// --json implies machine mode so spinners and banners stay out of the
// stream a script will parse.
func applyOutputFlags() {
	switch {
	case jsonOutput:
		ux.SetMode(ux.ModeMachine)
	case noColor:
		ux.SetMode(ux.ModePlain)
	default:
		ux.InitOutput()
	}
}

// loadCLIConfig loads the config file, applies flag overrides, and
// re-validates so a bad --backend fails the same way a bad file would.
func loadCLIConfig() {
	cfg, err := config.Load(configPath)
	if err != nil {
		ux.Error(fmt.Sprintf("configuration: %v", err))
		os.Exit(exitError)
	}
	if corpusPath != "" {
		cfg.Corpus.Path = corpusPath
	}
	if backendName != "" {
		cfg.Model.Backend = backendName
	}
	if modelName != "" {
		cfg.Model.Name = modelName
	}
	if err := cfg.Validate(); err != nil {
		ux.Error(fmt.Sprintf("configuration: %v", err))
		os.Exit(exitError)
	}
	cliConfig = cfg
}

// initCLILogging keeps the log stream quiet by default: review output
// belongs to the renderers, so only warnings and errors reach stderr
// unless CITECHECK_LOG_LEVEL says otherwise. The engine packages log
// through slog.Default, so it is swapped here too.
func initCLILogging() {
	level := logging.LevelWarn
	if v := os.Getenv("CITECHECK_LOG_LEVEL"); v != "" {
		level = logging.ParseLevel(v)
	}
	cliLogger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cliConfig.Logging.Dir,
		Service: "cli",
	})
	slog.SetDefault(cliLogger.Slog())
}

// cliSlog returns the logger handed to engine packages.
func cliSlog() *slog.Logger {
	if cliLogger == nil {
		return slog.Default()
	}
	return cliLogger.Slog()
}

// startDiagnostics turns on the stdout span and metric exporters for a
// single invocation. Ad hoc visibility, not production telemetry.
func startDiagnostics() {
	telCfg := telemetry.DefaultConfig()
	telCfg.ServiceName = "citecheck-cli"
	telCfg.TraceExporter = "stdout"
	telCfg.MetricExporter = "stdout"

	shutdown, err := telemetry.Init(context.Background(), telCfg)
	if err != nil {
		ux.Warning(fmt.Sprintf("trace diagnostics unavailable: %v", err))
		return
	}
	stopTelemetry = shutdown
}

// stopDiagnostics flushes whatever the diagnostic exporters buffered.
func stopDiagnostics() {
	if stopTelemetry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stopTelemetry(ctx); err != nil {
		ux.Warning(fmt.Sprintf("trace diagnostics shutdown: %v", err))
	}
	stopTelemetry = nil
}

// buildStore loads the corpus. A load failure is a warning, not an exit:
// a degraded store still classifies and still runs the deterministic
// checks, it just reviews without rule context.
func buildStore() *rules.Store {
	store, err := rules.NewStore(cliConfig.Corpus.Path, cliSlog())
	if err != nil {
		ux.Warning(fmt.Sprintf("corpus %s did not load (%v); reviews run without rule context",
			cliConfig.Corpus.Path, err))
	}
	return store
}

// buildModelClient constructs the review model backend named in the
// config, with model-name overrides flowing through the env vars each
// client reads.
func buildModelClient(cfg config.ModelConfig) (llm.Client, error) {
	switch cfg.Backend {
	case "openai":
		if cfg.Name != "" {
			os.Setenv("OPENAI_MODEL", cfg.Name)
		}
		return llm.NewOpenAIClient(llm.NewKeyring())
	case "anthropic", "claude":
		if cfg.Name != "" {
			os.Setenv("ANTHROPIC_MODEL", cfg.Name)
		}
		return llm.NewAnthropicClient(llm.NewKeyring())
	default:
		if cfg.Name != "" {
			os.Setenv("OLLAMA_MODEL", cfg.Name)
		}
		return llm.NewOllamaClient()
	}
}

// buildReviewer assembles the full review pipeline against the store.
func buildReviewer(store *rules.Store) (*validate.Validator, error) {
	client, err := buildModelClient(cliConfig.Model)
	if err != nil {
		return nil, fmt.Errorf("review model backend: %w", err)
	}

	limiter := llm.NewLimiter(cliConfig.Model.RequestsPerSecond, cliConfig.Model.Burst,
		time.Duration(cliConfig.Model.CooldownSeconds)*time.Second)

	reviewCfg := validate.DefaultConfig()
	reviewCfg.MaxLocalRules = cliConfig.Retrieval.MaxLocalRules
	reviewCfg.MaxGeneralRules = cliConfig.Retrieval.MaxGeneralRules

	return validate.NewValidator(store, client, limiter, grounding.NewCheckSet(nil),
		reviewCfg, cliSlog()), nil
}

// readCitationLines parses one citation per line, trimming whitespace
// and skipping blank lines. Long lines are capped at 1MB, far above the
// request limit, so oversize input fails validation rather than the
// scanner.
func readCitationLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var citations []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		citations = append(citations, line)
	}
	return citations, scanner.Err()
}

// loadCitationsFile reads citations from a file, one per line.
func loadCitationsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCitationLines(f)
}

// printJSON writes indented JSON to stdout for --json consumers.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		ux.Error(fmt.Sprintf("encoding output: %v", err))
		os.Exit(exitError)
	}
	fmt.Println(string(out))
}
