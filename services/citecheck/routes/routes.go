// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CiteCheck/pkg/extensions"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/telemetry"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
	"github.com/AleutianAI/CiteCheck/services/citecheck/handlers"
	"github.com/AleutianAI/CiteCheck/services/citecheck/middleware"
)

// Deps carries the shared components the route handlers close over.
type Deps struct {
	// Reviewer runs the full citation review pipeline.
	Reviewer *validate.Validator

	// Store serves rule retrieval and corpus status.
	Store *rules.Store

	// Extensions holds the enterprise extension points. Use
	// extensions.DefaultOptions() for the open source no-op set.
	Extensions extensions.ServiceOptions

	// Watching reports whether a corpus file watcher is active.
	Watching bool

	// MaxLocalRules and MaxGeneralRules are the default retrieval quotas
	// for /rules/search when the query does not override them.
	MaxLocalRules   int
	MaxGeneralRules int

	// BatchWorkers bounds concurrent reviews within one batch request.
	BatchWorkers int

	// MaxBatchItems is the largest batch a single request may submit.
	MaxBatchItems int
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)

	// Prometheus scrape endpoint. Nil when the metric exporter is not
	// prometheus (stdout or none), so guard the route.
	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.RequestID())
	{
		citations := v1.Group("/citations")
		{
			citations.POST("/validate", handlers.HandleValidate(deps.Reviewer, deps.Extensions))
			citations.POST("/validate/batch", handlers.HandleBatchValidate(
				deps.Reviewer, deps.Extensions, deps.BatchWorkers, deps.MaxBatchItems))
			citations.POST("/classify", handlers.HandleClassify())
		}
		rulesGroup := v1.Group("/rules")
		{
			rulesGroup.GET("/search", handlers.HandleRulesSearch(
				deps.Store, deps.MaxLocalRules, deps.MaxGeneralRules))
		}
		v1.GET("/corpus/status", handlers.HandleCorpusStatus(deps.Store, deps.Watching))
	}
}
