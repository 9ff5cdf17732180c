// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides the gin handlers for the CiteCheck service.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/CiteCheck/pkg/extensions"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
	"github.com/AleutianAI/CiteCheck/services/citecheck/datatypes"
)

var tracer = otel.Tracer("citecheck.service.handlers")

// HandleValidate reviews a single citation.
//
// 400 for malformed or invalid bodies, 422 when the review filter blocks
// the citation, 503 when the review model is unreachable and there were
// no deterministic findings to fall back on, 500 for anything else, 200
// with the full result otherwise (degraded deterministic-only results
// included; those carry a note, not an error).
func HandleValidate(reviewer *validate.Validator, opts extensions.ServiceOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleValidate")
		defer span.End()
		start := time.Now()

		var req datatypes.ValidateCitationRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("failed to bind validate request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			slog.Warn("rejected validate request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request: " + err.Error()})
			return
		}
		req.EnsureDefaults()

		span.SetAttributes(
			attribute.String("request_id", req.RequestID),
			attribute.Int("citation_bytes", len(req.CitationText)),
		)
		slog.Info("received validate request",
			"request_id", req.RequestID,
			"footnote_number", req.FootnoteNumber)

		filtered, err := opts.ReviewFilter.FilterCitation(ctx, req.CitationText)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("review filter failed", "request_id", req.RequestID, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: "review filter failed"})
			return
		}
		if filtered.WasBlocked {
			slog.Warn("citation blocked by review filter",
				"request_id", req.RequestID, "reason", filtered.BlockReason)
			auditReviewBlocked(ctx, opts.AuditLogger, req.RequestID, filtered.BlockReason)
			c.JSON(http.StatusUnprocessableEntity, datatypes.ErrorResponse{
				Error: "citation blocked by content policy: " + filtered.BlockReason})
			return
		}
		req.CitationText = filtered.Filtered

		result, err := reviewer.Validate(ctx, req.ToReview())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("citation review failed", "request_id", req.RequestID, "error", err)
			auditReviewOutcome(ctx, opts.AuditLogger, req.RequestID, nil, err)
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, validate.ErrInvalidInput):
				status = http.StatusBadRequest
			case errors.Is(err, validate.ErrLLMUnavailable):
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, datatypes.ErrorResponse{Error: err.Error()})
			return
		}

		if err := filterModelText(ctx, opts.ReviewFilter, result); err != nil {
			span.RecordError(err)
			slog.Error("correction filter failed", "request_id", req.RequestID, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: "review filter failed"})
			return
		}

		span.SetAttributes(
			attribute.Bool("is_correct", result.IsCorrect),
			attribute.Int("errors", len(result.Errors)),
		)
		auditReviewOutcome(ctx, opts.AuditLogger, req.RequestID, result, nil)
		c.JSON(http.StatusOK, datatypes.NewValidateCitationResponse(req.RequestID, *result, time.Since(start)))
	}
}

// HandleBatchValidate reviews a batch of citations with bounded
// concurrency. Individual failures become per-item errors; the batch
// itself succeeds as long as the request was well formed.
func HandleBatchValidate(reviewer *validate.Validator, opts extensions.ServiceOptions, workers, maxItems int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleBatchValidate")
		defer span.End()
		start := time.Now()

		var req datatypes.BatchValidateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("failed to bind batch request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			slog.Warn("rejected batch request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request: " + err.Error()})
			return
		}
		if len(req.Citations) > maxItems {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Error: fmt.Sprintf("batch exceeds the server limit of %d citations", maxItems)})
			return
		}
		req.EnsureDefaults()

		span.SetAttributes(
			attribute.String("request_id", req.RequestID),
			attribute.Int("citations", len(req.Citations)),
		)
		slog.Info("received batch request",
			"request_id", req.RequestID,
			"citations", len(req.Citations))

		items := make([]datatypes.BatchItemResult, len(req.Citations))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, citation := range req.Citations {
			g.Go(func() error {
				items[i] = reviewBatchItem(gctx, reviewer, opts, i, citation)
				// A failed review is an item outcome, not a batch failure.
				return nil
			})
		}
		_ = g.Wait()

		resp := datatypes.BatchValidateResponse{
			RequestID:        req.RequestID,
			Timestamp:        time.Now().UnixMilli(),
			Items:            items,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
		for _, item := range items {
			switch {
			case item.Error != "":
				resp.Failed++
			case item.Result != nil && item.Result.IsCorrect:
				resp.Correct++
			default:
				resp.Flawed++
			}
		}

		span.SetAttributes(
			attribute.Int("correct", resp.Correct),
			attribute.Int("flawed", resp.Flawed),
			attribute.Int("failed", resp.Failed),
		)
		auditBatch(ctx, opts.AuditLogger, req.RequestID, &resp)
		c.JSON(http.StatusOK, resp)
	}
}

// reviewBatchItem runs the filter and review for one batch entry.
func reviewBatchItem(ctx context.Context, reviewer *validate.Validator, opts extensions.ServiceOptions, index int, citation datatypes.ValidateCitationRequest) datatypes.BatchItemResult {
	item := datatypes.BatchItemResult{
		Index:        index,
		CitationText: citation.CitationText,
	}

	filtered, err := opts.ReviewFilter.FilterCitation(ctx, citation.CitationText)
	if err != nil {
		item.Error = "review filter failed"
		return item
	}
	if filtered.WasBlocked {
		item.Error = "citation blocked by content policy: " + filtered.BlockReason
		return item
	}
	citation.CitationText = filtered.Filtered

	result, err := reviewer.Validate(ctx, citation.ToReview())
	if err != nil {
		item.Error = err.Error()
		return item
	}
	if err := filterModelText(ctx, opts.ReviewFilter, result); err != nil {
		item.Error = "review filter failed"
		return item
	}
	item.Result = result
	return item
}

// filterModelText runs the correction filter over every model-generated
// string in the result: the proposed rewrite and each finding's
// description and suggested fix. Deterministic findings pass through the
// same filter; their template text never trips a sane policy.
func filterModelText(ctx context.Context, filter extensions.ReviewFilter, result *validate.Result) error {
	if result.CorrectedVersion != nil {
		out, err := filter.FilterCorrection(ctx, *result.CorrectedVersion)
		if err != nil {
			return err
		}
		result.CorrectedVersion = &out.Filtered
	}
	for i := range result.Errors {
		out, err := filter.FilterCorrection(ctx, result.Errors[i].Description)
		if err != nil {
			return err
		}
		result.Errors[i].Description = out.Filtered

		if result.Errors[i].Correct == "" {
			continue
		}
		out, err = filter.FilterCorrection(ctx, result.Errors[i].Correct)
		if err != nil {
			return err
		}
		result.Errors[i].Correct = out.Filtered
	}
	return nil
}

// auditReviewOutcome records one finished review. Audit failures log a
// warning; the review result still returns.
func auditReviewOutcome(ctx context.Context, auditor extensions.AuditLogger, requestID string, result *validate.Result, reviewErr error) {
	event := extensions.AuditEvent{
		EventType:    "review.completed",
		Timestamp:    time.Now().UTC(),
		UserID:       "anonymous",
		Action:       "review",
		ResourceType: "citation",
		Outcome:      "success",
		Metadata:     map[string]any{"request_id": requestID},
	}
	switch {
	case reviewErr != nil:
		event.EventType = "review.failed"
		event.Outcome = "failure"
		event.Metadata["error"] = reviewErr.Error()
	case result.Note != "":
		event.EventType = "review.degraded"
		event.Outcome = "degraded"
		event.ResourceID = result.RunID
		event.Metadata["errors"] = len(result.Errors)
	default:
		event.ResourceID = result.RunID
		event.Metadata["source_type"] = string(result.SourceType)
		event.Metadata["errors"] = len(result.Errors)
	}

	if err := auditor.Log(ctx, event); err != nil {
		slog.Warn("audit log failed", "request_id", requestID, "error", err)
	}
}

// auditReviewBlocked records a filter block.
func auditReviewBlocked(ctx context.Context, auditor extensions.AuditLogger, requestID, reason string) {
	err := auditor.Log(ctx, extensions.AuditEvent{
		EventType:    "review.blocked",
		Timestamp:    time.Now().UTC(),
		UserID:       "anonymous",
		Action:       "review",
		ResourceType: "citation",
		Outcome:      "blocked",
		Metadata: map[string]any{
			"request_id":   requestID,
			"block_reason": reason,
		},
	})
	if err != nil {
		slog.Warn("audit log failed", "request_id", requestID, "error", err)
	}
}

// auditBatch records one finished batch with its tallies.
func auditBatch(ctx context.Context, auditor extensions.AuditLogger, requestID string, resp *datatypes.BatchValidateResponse) {
	err := auditor.Log(ctx, extensions.AuditEvent{
		EventType:    "batch.completed",
		Timestamp:    time.Now().UTC(),
		UserID:       "anonymous",
		Action:       "review",
		ResourceType: "batch",
		ResourceID:   requestID,
		Outcome:      "success",
		Metadata: map[string]any{
			"items":   len(resp.Items),
			"correct": resp.Correct,
			"flawed":  resp.Flawed,
			"failed":  resp.Failed,
		},
	})
	if err != nil {
		slog.Warn("audit log failed", "request_id", requestID, "error", err)
	}
}
