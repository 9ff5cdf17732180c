// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for review operations.
var (
	tracer = otel.Tracer("citecheck.validate")
	meter  = otel.Meter("citecheck.validate")
)

var (
	validationsTotal   metric.Int64Counter
	validationDuration metric.Float64Histogram
	errorsReported     metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		validationsTotal, err = meter.Int64Counter(
			"validations_total",
			metric.WithDescription("Total citation reviews by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		validationDuration, err = meter.Float64Histogram(
			"validation_duration_seconds",
			metric.WithDescription("End-to-end review duration by outcome"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		errorsReported, err = meter.Int64Counter(
			"validation_errors_reported_total",
			metric.WithDescription("Total merged error findings by error type"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// RecordValidation records one review by outcome: complete, degraded, or
// failed.
//
// Thread Safety: Safe for concurrent use.
func RecordValidation(ctx context.Context, outcome string, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	validationsTotal.Add(ctx, 1, attrs)
	validationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordReportedErrors counts the merged findings of a finished review.
//
// Thread Safety: Safe for concurrent use.
func RecordReportedErrors(ctx context.Context, result *Result) {
	if err := initMetrics(); err != nil {
		return
	}
	if result == nil {
		return
	}

	for _, f := range result.Errors {
		errorsReported.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error_type", f.ErrorType),
		))
	}
}

// StartValidationSpan creates the root span for one review.
//
// Thread Safety: Safe for concurrent use.
func StartValidationSpan(ctx context.Context, runID string, citationLen int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "validate.citation",
		trace.WithAttributes(
			attribute.String("validate.run_id", runID),
			attribute.Int("validate.citation_length", citationLen),
		),
	)
}

// AddPhaseEvent records a phase transition on the review span.
//
// Thread Safety: Safe for concurrent use.
func AddPhaseEvent(span trace.Span, from, to Phase) {
	span.AddEvent("state_transition", trace.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}

// SetValidationSpanResult sets verdict attributes on the review span.
//
// Thread Safety: Safe for concurrent use.
func SetValidationSpanResult(span trace.Span, result *Result) {
	if result == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("validate.is_correct", result.IsCorrect),
		attribute.Int("validate.errors", len(result.Errors)),
		attribute.Bool("validate.evidence_validated", result.EvidenceValidated),
		attribute.String("validate.source_type", string(result.SourceType)),
		attribute.Int64("validate.elapsed_ms", result.ElapsedMS),
	)
}
