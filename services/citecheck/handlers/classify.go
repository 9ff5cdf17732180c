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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/services/citecheck/datatypes"
)

// HandleClassify classifies a citation without running a review: source
// type, extracted components, and the retrieval strategies suited to the
// type. Classification never fails; unrecognized text comes back UNKNOWN.
func HandleClassify() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleClassify")
		defer span.End()

		var req datatypes.ClassifyRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("failed to bind classify request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			slog.Warn("rejected classify request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request: " + err.Error()})
			return
		}

		sourceType, components := cite.Classify(req.CitationText)
		span.SetAttributes(attribute.String("source_type", string(sourceType)))

		c.JSON(http.StatusOK, datatypes.ClassifyResponse{
			SourceType: sourceType,
			Components: components,
			Strategies: cite.Strategies(sourceType),
		})
	}
}
