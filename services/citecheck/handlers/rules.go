// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/services/citecheck/datatypes"
)

// HandleRulesSearch runs a retrieval dry run: the same scoring a review
// would use, exposed for corpus debugging. Query parameters: q (required),
// local and general (per-corpus quotas, defaulting to the server config).
func HandleRulesSearch(store *rules.Store, defaultLocal, defaultGeneral int) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleRulesSearch")
		defer span.End()

		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "missing query parameter q"})
			return
		}

		maxLocal := quotaParam(c, "local", defaultLocal)
		maxGeneral := quotaParam(c, "general", defaultGeneral)

		matches, coverage := store.Retrieve(query, maxLocal, maxGeneral)
		if matches == nil {
			matches = []rules.Match{}
		}

		span.SetAttributes(
			attribute.Int("matches", len(matches)),
			attribute.Int("max_local", maxLocal),
			attribute.Int("max_general", maxGeneral),
		)
		c.JSON(http.StatusOK, datatypes.RulesSearchResponse{
			Query:    query,
			Matches:  matches,
			Coverage: coverage,
		})
	}
}

// quotaParam parses a per-corpus quota query parameter, clamped to 1..50.
func quotaParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

// HandleCorpusStatus reports what the rule store currently holds. A
// degraded store (load failure at boot or after a bad reload) answers
// here too, which is how operators notice.
func HandleCorpusStatus(store *rules.Store, watching bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleCorpusStatus")
		defer span.End()

		status := store.Status()
		span.SetAttributes(
			attribute.Bool("loaded", status.Loaded),
			attribute.Bool("degraded", status.Degraded),
		)
		c.JSON(http.StatusOK, datatypes.CorpusStatusResponse{
			StoreStatus: status,
			Watching:    watching,
		})
	}
}

// HealthCheck reports process liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
