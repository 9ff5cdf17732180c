// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grounding

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for deterministic check operations.
var (
	tracer = otel.Tracer("citecheck.grounding")
	meter  = otel.Meter("citecheck.grounding")
)

// Metrics for check and evidence operations.
var (
	checksTotal   metric.Int64Counter
	checkDuration metric.Float64Histogram
	findingsTotal metric.Int64Counter

	evidenceTotal  metric.Int64Counter
	evidenceIssues metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		checksTotal, err = meter.Int64Counter(
			"grounding_checks_total",
			metric.WithDescription("Total deterministic checks by checker and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checkDuration, err = meter.Float64Histogram(
			"grounding_check_duration_seconds",
			metric.WithDescription("Deterministic check duration by checker"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		findingsTotal, err = meter.Int64Counter(
			"grounding_findings_total",
			metric.WithDescription("Total findings by checker and error type"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evidenceTotal, err = meter.Int64Counter(
			"grounding_evidence_validations_total",
			metric.WithDescription("Total evidence validations by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evidenceIssues, err = meter.Int64Counter(
			"grounding_evidence_issues_total",
			metric.WithDescription("Total ungrounded claims detected"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// RecordCheck records metrics for a single checker execution.
//
// Inputs:
//   - ctx: Context for metric recording.
//   - checker: Name of the checker.
//   - findingCount: Number of findings produced.
//   - duration: Time taken for the check.
//
// Thread Safety: Safe for concurrent use.
func RecordCheck(ctx context.Context, checker string, findingCount int, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	outcome := "clean"
	if findingCount > 0 {
		outcome = "findings"
	}

	attrs := metric.WithAttributes(
		attribute.String("checker", checker),
		attribute.String("outcome", outcome),
	)

	checksTotal.Add(ctx, 1, attrs)
	checkDuration.Record(ctx, duration.Seconds(), attrs)
	if findingCount > 0 {
		findingsTotal.Add(ctx, int64(findingCount),
			metric.WithAttributes(attribute.String("checker", checker)))
	}
}

// StartCheckSpan creates a span for one run of the deterministic check
// set.
//
// Inputs:
//   - ctx: Parent context.
//   - citationLen: Length of the citation being checked.
//
// Outputs:
//   - context.Context: Context with span.
//   - trace.Span: The created span.
//
// Thread Safety: Safe for concurrent use.
func StartCheckSpan(ctx context.Context, citationLen int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "grounding.check_set",
		trace.WithAttributes(
			attribute.Int("grounding.citation_length", citationLen),
		),
	)
}

// AddCheckerEvent adds an event to the span for one checker execution.
//
// Thread Safety: Safe for concurrent use.
func AddCheckerEvent(span trace.Span, checker string, findingCount int, duration time.Duration) {
	span.AddEvent("checker_executed", trace.WithAttributes(
		attribute.String("checker", checker),
		attribute.Int("findings", findingCount),
		attribute.Int64("duration_ms", duration.Milliseconds()),
	))
}

// RecordEvidence records the outcome of an evidence validation.
//
// Inputs:
//   - ctx: Context for metric recording.
//   - report: The completed evidence report.
//
// Thread Safety: Safe for concurrent use.
func RecordEvidence(ctx context.Context, report EvidenceReport) {
	if err := initMetrics(); err != nil {
		return
	}

	outcome := "grounded"
	if !report.Success {
		outcome = "ungrounded"
	}

	evidenceTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
	if len(report.Issues) > 0 {
		evidenceIssues.Add(ctx, int64(len(report.Issues)))
	}
}
