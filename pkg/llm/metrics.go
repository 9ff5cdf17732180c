// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for model-boundary operations.
var (
	tracer = otel.Tracer("citecheck.llm")
	meter  = otel.Meter("citecheck.llm")
)

var (
	completionsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		completionsTotal, metricsErr = meter.Int64Counter(
			"llm_completions_total",
			metric.WithDescription("Total completion calls by backend and outcome state"),
		)
	})
	return metricsErr
}

// RecordCompletion records one completion call outcome.
//
// Thread Safety: Safe for concurrent use.
func RecordCompletion(ctx context.Context, backend string, state OutcomeState) {
	if err := initMetrics(); err != nil {
		return
	}

	completionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("state", string(state)),
	))
}

// StartCompletionSpan creates a span for one completion call.
//
// Thread Safety: Safe for concurrent use.
func StartCompletionSpan(ctx context.Context, backend string, promptLen int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "llm.complete",
		trace.WithAttributes(
			attribute.String("llm.backend", backend),
			attribute.Int("llm.prompt_length", promptLen),
		),
	)
}
