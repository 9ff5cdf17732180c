// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// The citecheck service exposes citation review over HTTP: single and
// batch validation, classification, rule search, and corpus status.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/CiteCheck/pkg/extensions"
	"github.com/AleutianAI/CiteCheck/pkg/grounding"
	"github.com/AleutianAI/CiteCheck/pkg/llm"
	"github.com/AleutianAI/CiteCheck/pkg/logging"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/telemetry"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
	"github.com/AleutianAI/CiteCheck/services/citecheck/config"
	"github.com/AleutianAI/CiteCheck/services/citecheck/routes"
)

// buildModelClient constructs the review model backend named in the
// config. Model name overrides flow through the env vars each client
// already reads, so container deployments and config files agree.
func buildModelClient(cfg config.ModelConfig) (llm.Client, error) {
	switch cfg.Backend {
	case "openai":
		if cfg.Name != "" {
			os.Setenv("OPENAI_MODEL", cfg.Name)
		}
		slog.Info("Using OpenAI review backend")
		return llm.NewOpenAIClient(llm.NewKeyring())
	case "anthropic", "claude":
		if cfg.Name != "" {
			os.Setenv("ANTHROPIC_MODEL", cfg.Name)
		}
		slog.Info("Using Anthropic (Claude) review backend")
		return llm.NewAnthropicClient(llm.NewKeyring())
	default:
		if cfg.Name != "" {
			os.Setenv("OLLAMA_MODEL", cfg.Name)
		}
		slog.Info("Using Ollama review backend")
		return llm.NewOllamaClient()
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: "api",
		JSON:    cfg.Logging.JSON,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// --- Init telemetry ---
	ctx := context.Background()
	telCfg := telemetry.DefaultConfig()
	telCfg.ServiceName = "citecheck-service"
	if cfg.Telemetry.OTLPEndpoint != "" {
		telCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	}
	shutdownTelemetry, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// --- Corpus store ---
	// A load failure is not fatal: the store serves degraded reviews
	// (deterministic text checks still run) and a watcher or operator
	// can repair the corpus without a restart.
	store, err := rules.NewStore(cfg.Corpus.Path, logger.Slog())
	if err != nil {
		slog.Warn("corpus failed to load, starting in degraded mode",
			"path", cfg.Corpus.Path, "error", err)
	}

	watching := false
	if cfg.Corpus.Watch {
		watcher, err := rules.NewWatcher(store, logger.Slog(), nil)
		if err != nil {
			slog.Warn("corpus watcher unavailable, reload on change disabled", "error", err)
		} else if err := watcher.Start(ctx); err != nil {
			slog.Warn("corpus watcher failed to start", "error", err)
		} else {
			defer watcher.Stop()
			watching = true
		}
	}

	// --- Review pipeline ---
	client, err := buildModelClient(cfg.Model)
	if err != nil {
		log.Fatalf("failed to initialize the review model client: %v", err)
	}
	limiter := llm.NewLimiter(cfg.Model.RequestsPerSecond, cfg.Model.Burst,
		time.Duration(cfg.Model.CooldownSeconds)*time.Second)
	checks := grounding.NewCheckSet(nil)

	reviewConfig := validate.DefaultConfig()
	reviewConfig.MaxLocalRules = cfg.Retrieval.MaxLocalRules
	reviewConfig.MaxGeneralRules = cfg.Retrieval.MaxGeneralRules
	reviewer := validate.NewValidator(store, client, limiter, checks, reviewConfig, logger.Slog())

	// --- HTTP surface ---
	router := gin.Default()
	router.Use(otelgin.Middleware("citecheck-service"))

	routes.SetupRoutes(router, routes.Deps{
		Reviewer:        reviewer,
		Store:           store,
		Extensions:      extensions.DefaultOptions(),
		Watching:        watching,
		MaxLocalRules:   cfg.Retrieval.MaxLocalRules,
		MaxGeneralRules: cfg.Retrieval.MaxGeneralRules,
		BatchWorkers:    cfg.Server.BatchWorkers,
		MaxBatchItems:   cfg.Server.MaxBatchItems,
	})

	slog.Info("starting the citecheck server", "port", cfg.Server.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
